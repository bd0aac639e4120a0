package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/torneoops/matchday/internal/core/ports"
)

// authEnvelope is the response shape shared by every authentication
// endpoint. A 200 with succeed=false is still a refusal and is normalized
// into the same error path as a failure status.
type authEnvelope struct {
	Succeed      bool   `json:"succeed"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}

// AuthClient implements ports.AuthAPI against the tournament API. Outgoing
// payloads are validated before any network traffic happens.
type AuthClient struct {
	transport ports.Transport
	validate  *validator.Validate
}

func NewAuthClient(transport ports.Transport) *AuthClient {
	return &AuthClient{transport: transport, validate: validator.New()}
}

// headerContextToken carries the optional token-scoped re-authentication
// credential; the API reads it out-of-band, never from the body.
const headerContextToken = "X-Context-Token"

func (c *AuthClient) Login(ctx context.Context, in ports.LoginInput) (ports.AuthPayload, error) {
	if err := c.check(in); err != nil {
		return ports.AuthPayload{}, err
	}
	env, err := c.post(ctx, "/api/auth/login", in, contextHeader(in.ContextToken)...)
	if err != nil {
		return ports.AuthPayload{}, err
	}
	if env.Token == "" {
		return ports.AuthPayload{}, &StatusError{Code: http.StatusOK, Message: "login succeeded but no token was issued"}
	}
	return ports.AuthPayload{Token: env.Token, RefreshToken: env.RefreshToken}, nil
}

func (c *AuthClient) Register(ctx context.Context, in ports.RegisterInput) (ports.RegisterOutcome, error) {
	if err := c.check(in); err != nil {
		return ports.RegisterOutcome{}, err
	}
	env, err := c.post(ctx, "/api/auth/register", in, contextHeader(in.ContextToken)...)
	if err != nil {
		return ports.RegisterOutcome{}, err
	}
	return ports.RegisterOutcome{Success: true, UserID: env.UserID, Email: env.Email}, nil
}

func (c *AuthClient) VerifyCode(ctx context.Context, email, code string) (ports.AuthPayload, error) {
	body := map[string]string{"email": email, "code": code}
	env, err := c.post(ctx, "/api/auth/verify-code", body)
	if err != nil {
		return ports.AuthPayload{}, err
	}
	return ports.AuthPayload{Token: env.Token, RefreshToken: env.RefreshToken}, nil
}

func (c *AuthClient) ResendCode(ctx context.Context, email, templateType string) error {
	body := map[string]string{"email": email, "templateType": templateType}
	_, err := c.post(ctx, "/api/auth/resend-code", body)
	return err
}

func (c *AuthClient) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	_, err := c.post(ctx, "/api/auth/reset-password", body)
	return err
}

func contextHeader(token string) []ports.Header {
	if token == "" {
		return nil
	}
	return []ports.Header{{Name: headerContextToken, Value: token}}
}

func (c *AuthClient) post(ctx context.Context, path string, body any, headers ...ports.Header) (authEnvelope, error) {
	var env authEnvelope
	if err := c.transport.Post(ctx, path, body, &env, headers...); err != nil {
		return authEnvelope{}, err
	}
	if !env.Succeed {
		msg := env.Message
		if msg == "" {
			msg = "the request was refused"
		}
		return authEnvelope{}, &StatusError{Code: http.StatusOK, Message: msg}
	}
	return env, nil
}

// check validates an outgoing payload, folding field errors into a single
// readable message.
func (c *AuthClient) check(in any) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
