package remotesync

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL  = "https://api.github.com"
	DefaultBranch  = "main"
	DefaultTimeout = 30 * time.Second
)

var ErrNotConfigured = errors.New("sincronización remota no configurada")

// Config agrupa las credenciales y el destino en el repositorio remoto.
type Config struct {
	Token    string
	Owner    string
	Repo     string
	Branch   string
	FilePath string
	APIURL   string
	Timeout  time.Duration
}

// Configured indica si hay token y repositorio.
func (c Config) Configured() bool {
	return c.Token != "" && c.Owner != "" && c.Repo != ""
}

// Status es el resumen que se publica en /estado.
type Status struct {
	Configured bool   `json:"github_configurado"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
}

// GitHubClient sube y baja el fichero del almacén mediante la API de contenidos.
type GitHubClient struct {
	cfg       Config
	localPath string
	http      *http.Client
	log       *zap.Logger
	now       func() time.Time
}

func NewGitHubClient(cfg Config, localPath string, log *zap.Logger) *GitHubClient {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FilePath == "" {
		cfg.FilePath = filepath.Base(localPath)
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	httpClient.Timeout = cfg.Timeout

	return &GitHubClient{
		cfg:       cfg,
		localPath: localPath,
		http:      httpClient,
		log:       log,
		now:       time.Now,
	}
}

func (c *GitHubClient) Status() Status {
	repo := ""
	if c.cfg.Owner != "" && c.cfg.Repo != "" {
		repo = c.cfg.Owner + "/" + c.cfg.Repo
	}
	return Status{Configured: c.cfg.Configured(), Repo: repo, Branch: c.cfg.Branch}
}

type contentResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

// Pull descarga el fichero remoto y sobrescribe el local. Si devuelve error
// el fichero local queda intacto.
func (c *GitHubClient) Pull(ctx context.Context) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	remote, status, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("github pull: unexpected status %d", status)
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(remote.Content, "\n", ""))
	if err != nil {
		return fmt.Errorf("github pull: decoding content: %w", err)
	}

	tmp := c.localPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, c.localPath); err != nil {
		return err
	}

	c.log.Info("📥 Datos descargados de GitHub",
		zap.String("repo", c.Status().Repo),
		zap.String("path", c.cfg.FilePath),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Push sube el fichero local. Si ya existe en remoto se actualiza con su sha.
func (c *GitHubClient) Push(ctx context.Context) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	data, err := os.ReadFile(c.localPath)
	if err != nil {
		return fmt.Errorf("github push: reading local store: %w", err)
	}

	remote, status, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	body := putRequest{
		Message: "Actualizar participantes " + c.now().Format("2006-01-02 15:04:05"),
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  c.cfg.Branch,
	}
	switch status {
	case http.StatusOK:
		body.SHA = remote.SHA
	case http.StatusNotFound:
	default:
		return fmt.Errorf("github push: unexpected status %d fetching sha", status)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github push: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("github push: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// fetch hace el GET del contenido. Sólo decodifica el cuerpo en un 200.
func (c *GitHubClient) fetch(ctx context.Context) (*contentResponse, int, error) {
	u := c.contentsURL() + "?ref=" + url.QueryEscape(c.cfg.Branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("github fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("github fetch: decoding response: %w", err)
	}
	return &content, resp.StatusCode, nil
}

func (c *GitHubClient) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimRight(c.cfg.APIURL, "/"),
		url.PathEscape(c.cfg.Owner),
		url.PathEscape(c.cfg.Repo),
		strings.TrimLeft(c.cfg.FilePath, "/"),
	)
}
