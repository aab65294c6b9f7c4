package journey

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/thesyncim/shopflow/pkg/shopflow/browser"
	"github.com/thesyncim/shopflow/pkg/shopflow/storefront"
)

var _ Driver = (*storefront.Storefront)(nil)

// BrowserOpener opens an incognito browsing context per journey and binds a
// Storefront to its page.
type BrowserOpener struct {
	Client  *browser.Client
	BaseURL string
	Options []storefront.Option
}

// Open implements Opener. The Storefront timeout defaults to the client's.
func (o *BrowserOpener) Open(ctx context.Context) (Driver, io.Closer, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if o.Client == nil {
		return nil, nil, errors.New("browser client is nil")
	}
	bc, err := o.Client.NewContext()
	if err != nil {
		return nil, nil, err
	}
	opts := append([]storefront.Option{storefront.WithTimeout(o.Client.Timeout())}, o.Options...)
	sf, err := storefront.New(bc.Page(), o.BaseURL, opts...)
	if err != nil {
		_ = bc.Close()
		return nil, nil, fmt.Errorf("storefront: %w", err)
	}
	return sf, bc, nil
}
