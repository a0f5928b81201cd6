package dto

import (
	"encoding/json"

	"petcare-ai/internal/models"
)

type KnowledgeInfoResponse struct {
	Available     bool                           `json:"available"`
	Version       string                         `json:"version"`
	LastUpdate    string                         `json:"last_update,omitempty"`
	Categories    map[string]models.CategoryInfo `json:"categories,omitempty"`
	EntryCount    int                            `json:"entry_count"`
	UpdateRecords []models.UpdateRecord          `json:"update_records,omitempty"`
	Warning       string                         `json:"warning,omitempty"`
}

type SaveKnowledgeRequest struct {
	Version     string                  `json:"version"`
	LastUpdate  string                  `json:"last_update,omitempty"`
	Entries     []models.KnowledgeEntry `json:"entries"`
	UpdateNotes string                  `json:"update_notes,omitempty"`
}

// UnmarshalJSON also accepts the camelCase updateNotes sent by older clients.
func (r *SaveKnowledgeRequest) UnmarshalJSON(data []byte) error {
	type plain SaveKnowledgeRequest
	var raw struct {
		plain
		UpdateNotesCamel string `json:"updateNotes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SaveKnowledgeRequest(raw.plain)
	if r.UpdateNotes == "" {
		r.UpdateNotes = raw.UpdateNotesCamel
	}
	return nil
}

type SaveKnowledgeResponse struct {
	Success      bool   `json:"success"`
	Version      string `json:"version"`
	Entries      int    `json:"entries"`
	BackupFile   string `json:"backup_file,omitempty"`
	Published    bool   `json:"published"`
	PublishError string `json:"publish_error,omitempty"`
}

type ExtractKnowledgeResponse struct {
	FileName string                  `json:"file_name"`
	Entries  []models.KnowledgeEntry `json:"entries"`
	Count    int                     `json:"count"`
}
