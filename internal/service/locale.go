package service

import (
	"fmt"

	"petcare-ai/internal/models"
)

// Locale is the catalog of user-visible text. Response and prompt wording is
// data selected by LOCALE, never branched on inline.
type Locale struct {
	Code string

	EmergencyBanner           string
	EmergencyGeneric          string
	EmergencyClosing          string
	EmergencyFallbackCitation string
	EmergencyActions          []string

	CitationPrefix    string
	CitationSeparator string
	DefaultCitation   string
	DirectActions     []string

	ModelCitation string
	ModelActions  map[models.RiskLevel][]string

	LocalKnowledgeNotice  string
	BusyNotice            string
	DegradedActions       map[models.RiskLevel][]string
	RefusalAnswer         string
	RefusalActions        []string
	UnknownValue          string
	WeightUnit            string
	SpeciesNames          map[models.Species]string
	ListSeparator         string
	PromptTemplate        string
	ExtractionInstruction string
}

// SpeciesName renders a species for prompts.
func (l *Locale) SpeciesName(s models.Species) string {
	if name, ok := l.SpeciesNames[s]; ok {
		return name
	}
	return l.UnknownValue
}

// LookupLocale returns the catalog for a locale code.
func LookupLocale(code string) (*Locale, error) {
	switch code {
	case "", "zh-TW":
		return LocaleZhTW(), nil
	case "en":
		return LocaleEN(), nil
	}
	return nil, fmt.Errorf("unknown locale %q", code)
}

func LocaleZhTW() *Locale {
	return &Locale{
		Code:                      "zh-TW",
		EmergencyBanner:           "⚠️ 緊急建議：請立即就醫！",
		EmergencyGeneric:          "這是高風險情況",
		EmergencyClosing:          "這是緊急情況，請立即聯繫最近的動物醫院。時間就是生命，請不要延誤！",
		EmergencyFallbackCitation: "寵物急診臨床規範",
		EmergencyActions: []string{
			"立即撥打動物急診專線",
			"搜尋附近 24 小時動物醫院",
			"記錄發病時間與症狀",
			"準備就醫所需資料",
		},
		CitationPrefix:    "📚 資料來源：",
		CitationSeparator: "、",
		DefaultCitation:   "寵物健康知識庫",
		DirectActions:     []string{"定期觀察寵物狀況", "如有疑慮請諮詢獸醫"},
		ModelCitation:     "AI 寵物健康助手",
		ModelActions: map[models.RiskLevel][]string{
			models.RiskLevelLow:    {"建議諮詢專業獸醫師", "定期觀察寵物狀況", "如有疑慮請立即就醫"},
			models.RiskLevelMedium: {"持續觀察症狀變化", "若情況惡化請就醫", "記錄症狀發生時間"},
			models.RiskLevelHigh:   {"立即聯繫獸醫", "搜尋附近 24 小時動物醫院", "記錄症狀時間"},
		},
		LocalKnowledgeNotice: "ℹ️ 以下是來自本地知識庫的資訊：\n\n",
		BusyNotice:           "ℹ️ 目前 API 請求繁忙，以下是來自本地知識庫的資訊：\n\n",
		DegradedActions: map[models.RiskLevel][]string{
			models.RiskLevelLow:    {"定期觀察寵物狀況", "如有疑慮請諮詢獸醫"},
			models.RiskLevelMedium: {"持續觀察症狀變化", "若情況惡化請就醫"},
			models.RiskLevelHigh:   {"立即聯繫獸醫", "若情況惡化請立即就醫"},
		},
		RefusalAnswer:  "⚠️ 抱歉，目前無法連接 AI 服務，且知識庫中沒有相關資訊。為了寵物安全，建議您直接諮詢專業獸醫師。",
		RefusalActions: []string{"諮詢專業獸醫師", "搜尋官方寵物照護資源", "記錄寵物症狀以便就醫時提供"},
		UnknownValue:   "未知",
		WeightUnit:     "公斤",
		SpeciesNames: map[models.Species]string{
			models.SpeciesDog: "狗",
			models.SpeciesCat: "貓",
		},
		ListSeparator:         "、",
		PromptTemplate:        promptTemplateZhTW,
		ExtractionInstruction: extractionInstructionZhTW,
	}
}

func LocaleEN() *Locale {
	return &Locale{
		Code:                      "en",
		EmergencyBanner:           "⚠️ Urgent: seek veterinary care immediately!",
		EmergencyGeneric:          "This is a high-risk situation.",
		EmergencyClosing:          "This is an emergency. Contact the nearest animal hospital now and do not wait.",
		EmergencyFallbackCitation: "Veterinary emergency clinical guidelines",
		EmergencyActions: []string{
			"Call an emergency veterinary hotline now",
			"Find the nearest 24-hour animal hospital",
			"Note when the symptoms started",
			"Prepare your pet's medical records",
		},
		CitationPrefix:    "📚 Sources: ",
		CitationSeparator: ", ",
		DefaultCitation:   "Pet health knowledge base",
		DirectActions:     []string{"Keep observing your pet", "Consult a veterinarian if in doubt"},
		ModelCitation:     "AI pet health assistant",
		ModelActions: map[models.RiskLevel][]string{
			models.RiskLevelLow:    {"Consult a veterinarian", "Keep observing your pet", "Seek care promptly if worried"},
			models.RiskLevelMedium: {"Monitor symptom changes", "See a vet if it gets worse", "Record when symptoms occur"},
			models.RiskLevelHigh:   {"Contact a veterinarian now", "Find a 24-hour animal hospital", "Record symptom times"},
		},
		LocalKnowledgeNotice: "ℹ️ Serving from local knowledge:\n\n",
		BusyNotice:           "ℹ️ The assistant is busy right now; serving from local knowledge:\n\n",
		DegradedActions: map[models.RiskLevel][]string{
			models.RiskLevelLow:    {"Keep observing your pet", "Consult a veterinarian if in doubt"},
			models.RiskLevelMedium: {"Monitor symptom changes", "See a vet if it gets worse"},
			models.RiskLevelHigh:   {"Contact a veterinarian now", "Seek care immediately if it gets worse"},
		},
		RefusalAnswer:  "⚠️ Sorry, the AI service is unavailable and the knowledge base has nothing on this. For your pet's safety, please consult a veterinarian.",
		RefusalActions: []string{"Consult a veterinarian", "Check official pet care resources", "Record symptoms for the vet visit"},
		UnknownValue:   "unknown",
		WeightUnit:     "kg",
		SpeciesNames: map[models.Species]string{
			models.SpeciesDog: "dog",
			models.SpeciesCat: "cat",
		},
		ListSeparator:         ", ",
		PromptTemplate:        promptTemplateEN,
		ExtractionInstruction: extractionInstructionEN,
	}
}

const promptTemplateZhTW = `你是一個專業的寵物健康 AI 助手。請根據以下規則回答問題：

## 🚨 最重要規則
{{- if .Entries}}
- **嚴格使用知識庫內容**：我已經為你檢索到 {{len .Entries}} 筆相關知識，你必須完全基於這些知識來回答，不要添加知識庫以外的資訊。
- **直接回答**：用知識庫的內容直接回答問題，不要說「根據知識庫」或「資料顯示」這類開場白。
- **必須引用來源**：回答結尾處標註「{{.CitationPrefix}}{{.Sources}}」
{{- else}}
- **專業建議**：知識庫中無相關資訊，請根據你的專業知識提供建議。
- **提醒諮詢**：務必提醒飼主若有疑慮應諮詢專業獸醫師。
{{- end}}
{{- if .HighRisk}}
- **高風險優先**：這是緊急情況，第一句話必須是「{{.Banner}}」
{{- end}}
{{- if .ToxicFoods}}
- **禁忌食物警告**：問題提及{{.ToxicFoods}}，必須明確給出中毒風險警告。
{{- end}}

## 寵物資料
- 物種：{{.Species}}
- 年齡：{{.Age}}
- 體重：{{.Weight}}

## 知識庫檢索結果
{{- range .Entries}}
{{.Rank}}. 【{{.Topic}}】
   內容：{{.Content}}
   來源：{{.Source}}
{{- else}}
（知識庫中無相關資訊）
{{- end}}

## 風險評估
{{if .HighRisk}}⚠️ 偵測到高風險關鍵字：{{.Keywords}}{{else}}無特殊風險{{end}}

## 使用者問題
{{.Question}}

{{if .Entries}}請直接使用上述知識庫內容回答，用親切專業的語氣，繁體中文。{{else}}請以繁體中文回答，語氣親切專業。{{end}}
`

const promptTemplateEN = `You are a professional pet health AI assistant. Follow these rules:

## 🚨 Rules
{{- if .Entries}}
- **Use only the knowledge below**: {{len .Entries}} relevant entries were retrieved; answer strictly from them and add nothing else.
- **Answer directly**: do not open with phrases like "according to the knowledge base".
- **Cite sources**: end the answer with "{{.CitationPrefix}}{{.Sources}}"
{{- else}}
- **General guidance**: the knowledge base has nothing on this; answer from general veterinary knowledge.
- **Recommend a vet**: always remind the owner to consult a veterinarian if in doubt.
{{- end}}
{{- if .HighRisk}}
- **Emergency first**: this is an emergency; the first sentence must be "{{.Banner}}"
{{- end}}
{{- if .ToxicFoods}}
- **Toxic food warning**: the question mentions {{.ToxicFoods}}; state the poisoning risk explicitly.
{{- end}}

## Pet profile
- Species: {{.Species}}
- Age: {{.Age}}
- Weight: {{.Weight}}

## Retrieved knowledge
{{- range .Entries}}
{{.Rank}}. [{{.Topic}}]
   Content: {{.Content}}
   Source: {{.Source}}
{{- else}}
(no relevant knowledge)
{{- end}}

## Risk assessment
{{if .HighRisk}}⚠️ High-risk keywords detected: {{.Keywords}}{{else}}No special risk{{end}}

## Question
{{.Question}}

Answer in a warm, professional tone.
`

const extractionInstructionZhTW = `你是寵物健康知識整理助手。請從以下文件內容中整理出可供問答使用的知識條目。

重要：只回傳有效的 JSON 陣列，不要加任何說明或 markdown。

文件內容：
%s

JSON 格式：
[
  {
    "topic": "簡短主題或問題",
    "content": "完整、可直接回答飼主的內容",
    "keywords": ["關鍵字1", "關鍵字2"],
    "species": ["dog", "cat"],
    "risk_level": "low|medium|high",
    "category": "醫療急救|餵養|日常照護|禁忌"
  }
]

規則：
- 文件中沒有寵物健康知識時，回傳空陣列：[]
- 只回傳 JSON`

const extractionInstructionEN = `You organise pet health knowledge. Extract question-answer knowledge entries from the document below.

IMPORTANT: return ONLY a valid JSON array, with no commentary or markdown.

Document:
%s

Format:
[
  {
    "topic": "short topic or question",
    "content": "complete answer an owner can act on",
    "keywords": ["keyword1", "keyword2"],
    "species": ["dog", "cat"],
    "risk_level": "low|medium|high",
    "category": "emergency|feeding|daily care|taboo"
  }
]

Rules:
- If the document has no pet health knowledge, return []
- Return JSON only`
