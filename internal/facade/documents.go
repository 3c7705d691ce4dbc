package facade

import (
	"context"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/api"
	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/document"
)

// Documents exposes document management operations.
type Documents struct {
	inv  Invoker
	auth AuthState
}

// NewDocuments builds the documents facade.
func NewDocuments(inv Invoker, auth AuthState) *Documents {
	return &Documents{inv: inv, auth: auth}
}

// List returns document metadata.
func (d *Documents) List(ctx context.Context) ([]document.Document, error) {
	if err := requireAuth(d.auth); err != nil {
		return nil, err
	}
	return invokeInto[[]document.Document](ctx, d.inv, api.CmdDocumentsList, nil)
}

// Upload registers a new document.
func (d *Documents) Upload(ctx context.Context, req document.UploadRequest) (document.Document, error) {
	if err := requireAuth(d.auth); err != nil {
		return document.Document{}, err
	}
	return invokeInto[document.Document](ctx, d.inv, api.CmdDocumentsUpload, req)
}

// Get retrieves a document with its content.
func (d *Documents) Get(ctx context.Context, id string) (document.Document, error) {
	if err := requireAuth(d.auth); err != nil {
		return document.Document{}, err
	}
	return invokeInto[document.Document](ctx, d.inv, api.CmdDocumentsGet, map[string]string{"id": id})
}

// Delete removes a document.
func (d *Documents) Delete(ctx context.Context, id string) error {
	if err := requireAuth(d.auth); err != nil {
		return err
	}
	_, err := invokeInto[map[string]bool](ctx, d.inv, api.CmdDocumentsDelete, map[string]string{"id": id})
	return err
}
