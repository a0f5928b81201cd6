package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"petcare-ai/internal/models"
	"petcare-ai/pkg/config"

	"go.uber.org/zap"
)

const githubAPIURL = "https://api.github.com"

// GitHubPublisher pushes the knowledge document to a repository through the
// GitHub contents API.
type GitHubPublisher struct {
	token      string
	owner      string
	repo       string
	path       string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGitHubPublisher(cfg *config.GitHubConfig, logger *zap.Logger) *GitHubPublisher {
	owner, repo, _ := strings.Cut(cfg.Repo, "/")
	return &GitHubPublisher{
		token:      cfg.Token,
		owner:      owner,
		repo:       repo,
		path:       strings.TrimPrefix(cfg.KnowledgePath, "/"),
		baseURL:    githubAPIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL points the publisher at another API host (GitHub Enterprise, tests).
func (p *GitHubPublisher) WithBaseURL(baseURL string) *GitHubPublisher {
	p.baseURL = strings.TrimSuffix(baseURL, "/")
	return p
}

// Publish commits kb to the repository's default branch.
func (p *GitHubPublisher) Publish(ctx context.Context, kb *models.KnowledgeBase, message string) error {
	branch, err := p.defaultBranch(ctx)
	if err != nil {
		return err
	}

	sha, err := p.currentSHA(ctx, branch)
	if err != nil {
		return err
	}

	data, err := Encode(kb)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge: %w", err)
	}

	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  branch,
	}
	if sha != "" {
		body["sha"] = sha
	}

	resp, err := p.do(ctx, http.MethodPut, p.contentsPath(), body)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", p.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError("update contents", resp)
	}

	p.logger.Info("Knowledge published to GitHub",
		zap.String("repo", p.owner+"/"+p.repo),
		zap.String("branch", branch),
		zap.String("version", kb.Version),
	)
	return nil
}

func (p *GitHubPublisher) defaultBranch(ctx context.Context) (string, error) {
	resp, err := p.do(ctx, http.MethodGet, p.repoPath(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get repository info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("get repository", resp)
	}

	var info struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode repository info: %w", err)
	}
	if info.DefaultBranch == "" {
		return "main", nil
	}
	return info.DefaultBranch, nil
}

// currentSHA returns the blob sha of the existing file, or "" when the file
// does not exist yet.
func (p *GitHubPublisher) currentSHA(ctx context.Context, branch string) (string, error) {
	resp, err := p.do(ctx, http.MethodGet, p.contentsPath()+"?ref="+url.QueryEscape(branch), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", p.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", apiError("get contents", resp)
	}

	var file struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("failed to decode contents response: %w", err)
	}
	return file.SHA, nil
}

func (p *GitHubPublisher) repoPath() string {
	return "/repos/" + url.PathEscape(p.owner) + "/" + url.PathEscape(p.repo)
}

// contentsPath escapes each segment of the file path; the separators stay.
func (p *GitHubPublisher) contentsPath() string {
	segments := strings.Split(p.path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return p.repoPath() + "/contents/" + strings.Join(segments, "/")
}

func (p *GitHubPublisher) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+p.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return p.httpClient.Do(req)
}

func apiError(op string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("github %s failed with status %d: %s", op, resp.StatusCode, payload.Message)
	}
	return fmt.Errorf("github %s failed with status %d: %s", op, resp.StatusCode, string(bodyBytes))
}
