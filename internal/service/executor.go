package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/Rrens/lookup-bot/internal/config"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Upper bound on a response body, below the chat transport's upload limit
const maxBodyBytes = 45 << 20

// Longest text message the chat transport accepts, in UTF-16 code units
const maxMessageUnits = 4096

// User-facing messages
const (
	MsgUnknownOperation = "No endpoint found for this operation."
	MsgUpstreamStatus   = "Could not get a valid response from the lookup service."
	MsgUpstreamFailure  = "The lookup failed, please try again later."
	MsgBadArguments     = "Something is wrong with the parameters, please try again."
)

// QueryExecutor resolves a bound operation into a URL, calls the lookup
// service and formats the answer for delivery
type QueryExecutor struct {
	client      *http.Client
	timeout     time.Duration
	inlineLimit int
	encodeArgs  bool
}

// NewQueryExecutor creates a new query executor. A nil client gets a
// default one bounded by the configured timeout.
func NewQueryExecutor(cfg config.LookupConfig, client *http.Client) *QueryExecutor {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &QueryExecutor{
		client:      client,
		timeout:     cfg.Timeout,
		inlineLimit: cfg.InlineLimit,
		encodeArgs:  cfg.EncodeArgs,
	}
}

// Characters left as-is when requoting a verbatim argument, on top of
// letters and digits. Reserved delimiters pass through so an argument may
// still carry its own query syntax.
const requoteSafe = "!#$&'()*+,/:;=?@[]~-._"

// ResolveURL fills each placeholder of the template with the next argument,
// left to right. When encode is set every argument is query-escaped first.
// Otherwise arguments keep their reserved characters and only bytes that
// cannot appear in a request URI are percent-encoded.
func ResolveURL(template string, args []string, encode bool) (string, error) {
	if got := strings.Count(template, domain.Placeholder); got != len(args) {
		return "", fmt.Errorf("template has %d placeholders but %d arguments were given", got, len(args))
	}

	var b strings.Builder
	rest := template
	for _, arg := range args {
		i := strings.Index(rest, domain.Placeholder)
		b.WriteString(rest[:i])
		if encode {
			arg = url.QueryEscape(arg)
		} else {
			arg = requote(arg)
		}
		b.WriteString(arg)
		rest = rest[i+len(domain.Placeholder):]
	}
	b.WriteString(rest)

	return b.String(), nil
}

// requote percent-encodes the bytes of s that are illegal in a URI. A '%'
// already starting a valid escape is kept, a stray one becomes %25.
func requote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(requoteSafe, c) >= 0:
			b.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// Execute performs the upstream GET and returns the response body.
// Non-2xx answers and transport failures are reported as *domain.UpstreamError.
func (e *QueryExecutor) Execute(ctx context.Context, op *domain.Operation, args []string) (string, error) {
	target, err := ResolveURL(op.EndpointTemplate, args, e.encodeArgs)
	if err != nil {
		return "", err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", &domain.UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", &domain.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", &domain.UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", &domain.UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return "", &domain.UpstreamError{StatusCode: resp.StatusCode, Err: errors.New("response body too large")}
	}

	return string(body), nil
}

// Format picks inline or file delivery for a response body. Length is
// counted in characters, not bytes. A message that would still exceed the
// chat transport's limit, measured in UTF-16 units, goes out as a file too.
func (e *QueryExecutor) Format(op *domain.Operation, body string) domain.Reply {
	if utf8.RuneCountInString(body) <= e.inlineLimit {
		text := fmt.Sprintf("📊 %s result:\n\n%s", op.Name, body)
		if utf16Len(text) <= maxMessageUnits {
			return domain.TextReply(text)
		}
	}
	return domain.DocumentReply(
		op.Name+"_sonuc.txt",
		[]byte(body),
		fmt.Sprintf("📊 %s result (file)", op.Name),
	)
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Run executes a bound operation and always returns a reply for the user.
// Failures are logged and converted into a generic message.
func (e *QueryExecutor) Run(ctx context.Context, userID domain.UserID, op *domain.Operation, args []string) domain.Reply {
	requestID := uuid.New().String()
	start := time.Now()

	body, err := e.Execute(ctx, op, args)
	latency := time.Since(start)

	if err != nil {
		logger := log.Warn().
			Err(err).
			Str("request_id", requestID).
			Str("operation", string(op.ID)).
			Int64("user_id", int64(userID)).
			Int("args", len(args)).
			Dur("latency", latency)

		var upstreamErr *domain.UpstreamError
		switch {
		case errors.As(err, &upstreamErr) && upstreamErr.Err == nil:
			logger.Int("status", upstreamErr.StatusCode).Msg("lookup returned non-success status")
			return domain.TextReply(MsgUpstreamStatus)
		case errors.As(err, &upstreamErr):
			logger.Msg("lookup request failed")
			return domain.TextReply(MsgUpstreamFailure)
		default:
			logger.Msg("failed to resolve lookup URL")
			return domain.TextReply(MsgBadArguments)
		}
	}

	reply := e.Format(op, body)

	log.Info().
		Str("request_id", requestID).
		Str("operation", string(op.ID)).
		Int64("user_id", int64(userID)).
		Int("args", len(args)).
		Int("body_bytes", len(body)).
		Bool("document", reply.IsDocument).
		Dur("latency", latency).
		Msg("lookup completed")

	return reply
}
