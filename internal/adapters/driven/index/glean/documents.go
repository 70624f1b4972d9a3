package glean

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
	"github.com/custodia-labs/rootly-sync/internal/logger"
)

// Per-document result statuses that mean the document was not indexed.
const (
	StatusRejected = "REJECTED"
	StatusFailed   = "FAILED"
)

const mimeTypeText = "text/plain"

func newUploadID() string {
	return uuid.NewString()
}

// IndexDocuments uploads one batch. A returned error fails the whole batch;
// documents the API rejects individually are listed in the result.
func (c *Client) IndexDocuments(ctx context.Context, docs []domain.Document) (*driven.IndexResult, error) {
	if len(docs) == 0 {
		return &driven.IndexResult{}, nil
	}
	if len(docs) > MaxBatchSize {
		return nil, fmt.Errorf("glean: batch of %d exceeds maximum %d: %w", len(docs), MaxBatchSize, domain.ErrInvalidInput)
	}

	uploadID := c.newUploadID()
	req := indexDocumentsRequest{
		UploadID:   uploadID,
		Datasource: c.datasource,
		Documents:  make([]document, 0, len(docs)),
	}
	for i := range docs {
		req.Documents = append(req.Documents, c.toWire(&docs[i]))
	}

	header := http.Header{}
	header.Set(HeaderUploadID, uploadID)

	logger.Debug("glean: upload %s: indexing %d documents", uploadID, len(docs))
	var resp indexDocumentsResponse
	if err := c.post(ctx, "/indexdocuments", req, &resp, header); err != nil {
		return nil, fmt.Errorf("glean: upload %s: %w", uploadID, err)
	}

	result := &driven.IndexResult{Rejected: rejected(resp.Results)}
	if len(result.Rejected) > 0 {
		logger.Warn("glean: upload %s: %d of %d documents rejected", uploadID, len(result.Rejected), len(docs))
	}
	return result, nil
}

func rejected(results []documentResult) []domain.DocumentFailure {
	var failures []domain.DocumentFailure
	for _, r := range results {
		status := strings.ToUpper(strings.TrimSpace(r.Status))
		if status != StatusRejected && status != StatusFailed {
			continue
		}
		reason := strings.TrimSpace(r.Reason)
		if reason == "" {
			reason = strings.TrimSpace(r.Error)
		}
		if reason == "" {
			reason = strings.ToLower(status)
		}
		failures = append(failures, domain.DocumentFailure{
			ID:     r.ID,
			Kind:   domain.ErrorKindUpload,
			Reason: reason,
		})
	}
	return failures
}

// toWire converts a domain document to the API representation.
func (c *Client) toWire(d *domain.Document) document {
	doc := document{
		ID:         d.ID,
		Datasource: c.datasource,
		ObjectType: d.ObjectType,
		Title:      d.Title,
		ViewURL:    d.ViewURL,
		Permissions: permissions{
			AllowAllDatasourceUsersAccess: d.Permissions.AllowAllDatasourceUsers,
		},
		Tags: d.Tags,
	}
	if d.Body != "" {
		doc.Body = &content{MimeType: mimeTypeText, TextContent: d.Body}
	}
	if d.Summary != "" {
		doc.Summary = &content{MimeType: mimeTypeText, TextContent: d.Summary}
	}
	if !d.Author.IsZero() {
		doc.Author = &user{Name: d.Author.Name, Email: d.Author.Email}
	}
	if !d.CreatedAt.IsZero() {
		doc.CreatedAt = d.CreatedAt.Unix()
	}
	if !d.UpdatedAt.IsZero() {
		doc.UpdatedAt = d.UpdatedAt.Unix()
	}
	for _, p := range d.Properties {
		doc.CustomProperties = append(doc.CustomProperties, customProperty(p))
	}
	return doc
}
