// Package uploadstatus describes the outcome of a single batch upload
// attempt, per spec.md §3/§7. The core never inspects payload bytes;
// it only ever reacts to this small, closed taxonomy.
package uploadstatus

import "fmt"

// Kind classifies why an upload did or didn't succeed.
type Kind int

const (
	// None indicates a successful delivery.
	None Kind = iota
	// Unauthorized indicates an invalid client token.
	Unauthorized
	// HTTPError wraps a non-2xx response status code.
	HTTPError
	// NetworkError indicates a transport-level failure (DNS, TCP reset,
	// timeout, TLS failure, ...).
	NetworkError
	// Redirection indicates an unexpected 3xx for our endpoints.
	Redirection
	// ClientTokenError indicates the token itself was rejected at a
	// layer below plain 401 (e.g. revoked, malformed).
	ClientTokenError
	// ServerError indicates a well-formed but failed server-side response
	// that isn't cleanly one of the above (defensive catch-all).
	ServerError
	// ResponseError indicates the response could not be parsed/understood.
	ResponseError
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Unauthorized:
		return "unauthorized"
	case HTTPError:
		return "http_error"
	case NetworkError:
		return "network_error"
	case Redirection:
		return "redirection"
	case ClientTokenError:
		return "client_token_error"
	case ServerError:
		return "server_error"
	case ResponseError:
		return "response_error"
	default:
		return "unknown"
	}
}

// Status is the result of one call to Uploader.Upload.
type Status struct {
	NeedsRetry bool
	Kind       Kind
	HTTPStatus int   // set whenever the status comes from a non-2xx HTTP response code
	Cause      error // set when Kind == NetworkError
}

func (s Status) Error() string {
	if s.Kind == None {
		return "upload succeeded"
	}
	if s.HTTPStatus != 0 {
		return fmt.Sprintf("%s (http %d)", s.Kind, s.HTTPStatus)
	}
	if s.Cause != nil {
		return fmt.Sprintf("%s: %v", s.Kind, s.Cause)
	}
	return s.Kind.String()
}

// Ok reports a fully successful delivery.
func (s Status) Ok() bool { return s.Kind == None }

// FromHTTPStatus classifies a plain HTTP response code per spec.md §7:
// 408/429/5xx are transient (needs_retry=true); other 4xx are
// permanent; 3xx is an unexpected redirection; 401 is Unauthorized.
func FromHTTPStatus(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return Status{Kind: None}
	case code == 401:
		return Status{Kind: Unauthorized, HTTPStatus: code, NeedsRetry: false}
	case code >= 300 && code < 400:
		return Status{Kind: Redirection, HTTPStatus: code, NeedsRetry: false}
	case code == 408 || code == 429:
		return Status{Kind: HTTPError, HTTPStatus: code, NeedsRetry: true}
	case code >= 500:
		return Status{Kind: HTTPError, HTTPStatus: code, NeedsRetry: true}
	case code >= 400:
		return Status{Kind: HTTPError, HTTPStatus: code, NeedsRetry: false}
	default:
		return Status{Kind: ResponseError, HTTPStatus: code, NeedsRetry: false}
	}
}

// FromNetworkError wraps a transport-level failure. Always retryable:
// the failure happened before any server verdict was rendered.
func FromNetworkError(err error) Status {
	return Status{Kind: NetworkError, Cause: err, NeedsRetry: true}
}
