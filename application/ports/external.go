package ports

import (
	"context"
	"io"

	"snaptales/domain/valueobjects"
)

// Account is the directory's view of a principal. The core treats AccountID
// as an opaque stable string.
type Account struct {
	AccountID string
	Email     string
	Name      string
	Verified  bool
}

// Session is an authenticated session issued by the account directory
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Account      Account
}

// AccountDirectory is the consumed external identity provider. Transient
// failures surface as Unavailable errors; the core performs no retries.
type AccountDirectory interface {
	CreateAccount(ctx context.Context, email, password, name string) (Account, error)
	Authenticate(ctx context.Context, email, password string) (Session, error)
	CurrentPrincipal(ctx context.Context, accessToken string) (Account, error)
	RequestEmailVerification(ctx context.Context, email string) error
	ConfirmVerification(ctx context.Context, email, code string) (Account, error)
	EndSession(ctx context.Context, accessToken string) error
}

// BlobStore is the consumed external object store. The core persists only
// opaque references, never bytes.
type BlobStore interface {
	Upload(ctx context.Context, name string, contentType string, body io.Reader) (valueobjects.BlobRef, error)
	FetchURL(ctx context.Context, ref valueobjects.BlobRef) (string, error)
	Delete(ctx context.Context, ref valueobjects.BlobRef) error
}
