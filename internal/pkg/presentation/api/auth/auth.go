package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("trello-stub/api/authz")

type Enticator interface {
	CheckAccess(ctx context.Context, r *http.Request) error
}

type enticatorImpl struct {
	preparedQuery rego.PreparedEvalQuery
}

// NewAuthenticator prepares the rego policy read from policies. The policy must
// define the boolean data.trello.authz.allow.
func NewAuthenticator(ctx context.Context, policies io.Reader) (Enticator, error) {

	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	impl := &enticatorImpl{}

	impl.preparedQuery, err = rego.New(
		rego.Query("data.trello.authz.allow"),
		rego.Module("trello.rego", string(module)),
	).PrepareForEval(ctx)

	if err != nil {
		return nil, err
	}

	return impl, nil
}

func (e *enticatorImpl) CheckAccess(ctx context.Context, r *http.Request) error {
	var err error

	ctx, span := tracer.Start(ctx, "check-auth")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	query := r.URL.Query()
	path := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	input := map[string]any{
		"method": r.Method,
		"path":   path,
		"key":    query.Get("key"),
		"token":  query.Get("token"),
	}

	results, err := e.preparedQuery.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		err = fmt.Errorf("opa eval failed: %w", err)
		return err
	}

	if !results.Allowed() {
		err = fmt.Errorf("%s %s is not allowed", r.Method, r.URL.Path)
		return err
	}

	return nil
}
