package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	pkgerrors "bamroute/pkg/errors"
)

// submitMethod is the JSON-RPC method every BAM endpoint exposes.
const submitMethod = "sendTransaction"

// Encoding is the wire encoding applied to raw transaction bytes.
type Encoding string

const (
	EncodingBase58 Encoding = "base58"
	EncodingBase64 Encoding = "base64"
)

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// ErrorObject is the JSON-RPC error member of a response envelope.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is the decoded JSON-RPC response envelope. Raw holds the
// body exactly as received.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`

	Raw []byte `json:"-"`
}

// Signature returns the result as a plain string when it is one
// (sendTransaction returns the transaction signature), or "" otherwise.
func (r *Response) Signature() string {
	var sig string
	if err := json.Unmarshal(r.Result, &sig); err != nil {
		return ""
	}
	return sig
}

// sendOptions is the optional second params element. Zero-valued
// fields are omitted; a zero-valued struct is never sent at all.
type sendOptions struct {
	SkipPreflight       bool   `json:"skipPreflight,omitempty"`
	PreflightCommitment string `json:"preflightCommitment,omitempty"`
}

func (o sendOptions) empty() bool {
	return !o.SkipPreflight && o.PreflightCommitment == ""
}

// encodePayload turns the caller-supplied transaction into the wire
// string. Strings pass through verbatim (assumed pre-encoded); bytes
// are encoded per enc. Anything else is rejected before any I/O.
func encodePayload(tx any, enc Encoding) (string, error) {
	switch v := tx.(type) {
	case string:
		return v, nil
	case []byte:
		switch enc {
		case EncodingBase58, "":
			return base58.Encode(v), nil
		case EncodingBase64:
			return base64.StdEncoding.EncodeToString(v), nil
		default:
			return "", fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedEncoding, enc)
		}
	default:
		return "", pkgerrors.ErrInvalidPayload
	}
}
