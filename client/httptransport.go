package client

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/foomo/cmsfront/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	httpTransport struct {
		client   *http.Client
		endpoint string
	}
	HTTPTransportOption func(*httpTransport)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func HTTPTransportWithHTTPClient(v *http.Client) HTTPTransportOption {
	return func(o *httpTransport) {
		o.client = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTPTransport will create a new http transport for the given server.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, opts ...HTTPTransportOption) transport {
	inst := &httpTransport{
		endpoint: server,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (ht *httpTransport) shutdown() {
	ht.client.CloseIdleConnections()
}

func (ht *httpTransport) call(ctx context.Context, method, path string, query url.Values, response any) error {
	u := ht.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	httpResponse, err := ht.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", path)
	}
	defer httpResponse.Body.Close()

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	switch httpResponse.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errors.Wrap(ErrNotFound, path)
	default:
		replyErr := &responses.Error{}
		if json.Unmarshal(responseBytes, replyErr) == nil && replyErr.Code != 0 {
			return replyErr
		}
		return errors.Errorf("non 200 reply from %s: %q", path, httpResponse.Status)
	}
	if response == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(responseBytes, response), "failed to unmarshal response")
}
