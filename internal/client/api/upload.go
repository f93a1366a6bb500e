package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"

	"github.com/antonkuprin/medilink/internal/client/config"
	"github.com/antonkuprin/medilink/internal/client/models"
	"github.com/antonkuprin/medilink/internal/common"
	"github.com/antonkuprin/medilink/internal/logging"
)

// UploadRequest describes one multipart document upload.
//
// Fields are written before the file part, in sorted key order. Progress,
// when set, receives monotonically increasing fractions of the body sent;
// it ends at 1.0 exactly once on success and is reset to 0.0 on any
// failure. Sends never block: a slow consumer misses intermediate values.
type UploadRequest struct {
	Path      string
	Role      Role
	Fields    map[string]string
	FieldName string
	FileName  string
	Content   []byte
	Progress  chan<- float64
}

// UploadController issues multipart uploads on a dedicated session with
// its own timeouts, separate from the long-poll pipeline session.
type UploadController struct {
	cfg  *config.Config
	auth Authenticator
	log  logging.Logger
}

func NewUploadController(cfg *config.Config, auth Authenticator, log logging.Logger) *UploadController {
	return &UploadController{cfg: cfg, auth: auth, log: log}
}

// Upload builds the multipart body, posts it and decodes the resulting
// document record. The underlying session is torn down when the call
// completes, success or not.
func (u *UploadController) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	fail := func(err error) (*models.Document, error) {
		publishProgress(req.Progress, 0)
		return nil, err
	}

	tok, err := u.auth.EnsureAuthenticated(ctx, req.Role)
	if err != nil {
		return fail(err)
	}

	body, contentType, err := buildMultipartBody(req)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}

	target := strings.TrimRight(u.cfg.BaseURL, "/") + u.cfg.APIPrefix + req.Path
	reader := &progressReader{
		r:       bytes.NewReader(body),
		total:   int64(len(body)),
		publish: req.Progress,
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, reader)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidRequest, err))
	}
	httpReq.ContentLength = int64(len(body))
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok.AccessToken)

	client := u.newSession()
	defer client.CloseIdleConnections()

	resp, err := client.Do(httpReq)
	if err != nil {
		return fail(classifyTransport(err))
	}
	respBody, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fail(fmt.Errorf("%w: %v", ErrInvalidResponse, readErr))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(serverErrorFrom(resp.StatusCode, respBody))
	}

	var doc models.Document
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return fail(fmt.Errorf("%w: document record: %v", ErrDecoding, err))
	}

	publishProgress(req.Progress, 1)
	u.log.Info(ctx, "document uploaded", "path", req.Path, "file", req.FileName, "size", len(req.Content))
	return &doc, nil
}

// newSession builds the dedicated upload client: bounded connect time,
// generous overall deadline for large bodies on slow links.
func (u *UploadController) newSession() *http.Client {
	return &http.Client{
		Timeout: u.cfg.UploadTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: u.cfg.UploadConnectTimeout}).DialContext,
		},
	}
}

func buildMultipartBody(req UploadRequest) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(req.Fields))
	for k := range req.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, req.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	fieldName := req.FieldName
	if fieldName == "" {
		fieldName = "file"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, req.FileName))
	h.Set("Content-Type", mimeTypeFor(req.FileName))

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// mimeTypeFor resolves the part content type from a small extension
// whitelist; anything else is sent as an opaque octet stream.
func mimeTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// progressReader republishes bytesSent/total on every read. Values only
// grow; duplicates are suppressed.
type progressReader struct {
	r       *bytes.Reader
	total   int64
	sent    int64
	last    float64
	publish chan<- float64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		frac := float64(p.sent) / float64(p.total)
		if frac > p.last {
			p.last = frac
			if frac < 1 {
				publishProgress(p.publish, frac)
			}
		}
	}
	return n, err
}

func publishProgress(ch chan<- float64, v float64) {
	if ch == nil {
		return
	}
	select {
	case ch <- v:
	default:
	}
}
