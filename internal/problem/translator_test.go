package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"project_tracker/internal/patch"
	"project_tracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "http://localhost:8080"

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestTranslator(t *testing.T) (*Translator, *validator.Validate) {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	tr, err := NewTranslator(base+"/", v)
	require.NoError(t, err)
	tr.now = func() time.Time { return fixedNow }
	return tr, v
}

func TestTranslate_Table(t *testing.T) {
	tr, _ := newTestTranslator(t)

	var typeErr *json.UnmarshalTypeError
	require.True(t, errors.As(json.Unmarshal([]byte(`{"userId":"x"}`), &struct {
		UserID int64 `json:"userId"`
	}{}), &typeErr))

	cases := []struct {
		name    string
		err     error
		status  int
		typ     Type
		detail  string
		userMsg string
	}{
		{"entity not found", &service.EntityNotFoundError{Message: "Project with id 3 is not registered."}, 404, ResourceNotFound, "Project with id 3 is not registered.", UserMessageSystemError},
		{"reference not found", &service.ReferenceNotFoundError{Message: "User with id 9 is not registered."}, 400, ResourceNotFound, "User with id 9 is not registered.", UserMessageSystemError},
		{"already exists", &service.EntityAlreadyExistsError{Message: "Name 'alice' unavailable."}, 400, EntityAlreadyExists, "Name 'alice' unavailable.", "Name 'alice' unavailable."},
		{"in use", &service.EntityInUseError{Message: "User with id 1 cannot be deleted as it is in use."}, 400, EntityInUse, "User with id 1 cannot be deleted as it is in use.", UserMessageEntityInUse},
		{"unknown patch property", &patch.PropertyNotExistError{Property: "owner"}, 409, PropertyNotExist, "Property 'owner' does not exist. Correct and enter a valid property.", UserMessageSystemError},
		{"invalid parameter", &InvalidParameterError{Name: "id", Value: "abc", Type: "integer"}, 400, InvalidParameter, "The URL parameter 'id' received the value 'abc', which is an invalid type. Correct and enter a value compatible with type 'integer'.", UserMessageSystemError},
		{"syntax error", &MalformedBodyError{Err: &json.SyntaxError{}}, 400, IncomprehensibleMessage, DetailMalformedBody, UserMessageSystemError},
		{"empty body", &MalformedBodyError{Err: io.EOF}, 400, IncomprehensibleMessage, DetailMalformedBody, UserMessageSystemError},
		{"wrong value type", &MalformedBodyError{Err: typeErr}, 400, IncomprehensibleMessage, "Property 'userId' received a value of type 'string', which is of invalid type. Correct and enter a value compatible with type 'int64'.", UserMessageSystemError},
		{"unknown body property", &MalformedBodyError{Err: errors.New(`json: unknown field "owner"`)}, 400, PropertyNotExist, "Property 'owner' does not exist. Correct and enter a valid property.", UserMessageSystemError},
		{"patch value type", &patch.InvalidValueError{Property: "userId", Err: typeErr}, 400, IncomprehensibleMessage, "Property 'userId' received a value of type 'string', which is of invalid type. Correct and enter a value compatible with type 'int64'.", UserMessageSystemError},
		{"route not found", &RouteNotFoundError{Method: "GET", Path: "/nowhere"}, 404, ResourceNotFound, "The resource '/nowhere' you tried to access does not exist.", UserMessageSystemError},
		{"invalid credentials", service.ErrInvalidCredentials, 401, Unauthorized, service.ErrInvalidCredentials.Error(), service.ErrInvalidCredentials.Error()},
		{"forbidden", fmt.Errorf("wrapped: %w", service.ErrForbidden), 403, AccessDenied, "wrapped: " + service.ErrForbidden.Error(), "wrapped: " + service.ErrForbidden.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, p := tr.Translate(tc.err)

			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.status, p.Status)
			assert.Equal(t, base+tc.typ.Path, p.Type)
			assert.Equal(t, tc.typ.Title, p.Title)
			assert.Equal(t, tc.detail, p.Detail)
			assert.Equal(t, tc.userMsg, p.UserMessage)
			assert.Equal(t, fixedNow, p.Timestamp)
			assert.Nil(t, p.Fields)
		})
	}
}

func TestTranslate_InternalErrorNeverLeaksCause(t *testing.T) {
	tr, _ := newTestTranslator(t)

	status, p := tr.Translate(fmt.Errorf("failed to find user: %w", errors.New("pq: password authentication failed for user \"app\"")))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, base+InternalServerError.Path, p.Type)
	assert.Equal(t, UserMessageSystemError, p.Detail)
	assert.Equal(t, UserMessageSystemError, p.UserMessage)
	assert.NotContains(t, p.Detail, "pq")
}

func TestTranslate_UnwrappedEOFIsInternal(t *testing.T) {
	tr, _ := newTestTranslator(t)

	status, _ := tr.Translate(fmt.Errorf("failed to query: %w", io.ErrUnexpectedEOF))

	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestTranslate_ValidationErrors(t *testing.T) {
	tr, v := newTestTranslator(t)
	type body struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	}

	err := v.Struct(body{Email: "not-an-email", Role: "ROOT"})
	require.Error(t, err)

	status, p := tr.Translate(err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, base+InvalidData.Path, p.Type)
	assert.Equal(t, DetailInvalidData, p.Detail)
	require.Len(t, p.Fields, 3)
	assert.Equal(t, Field{Name: "name", Message: "name is a required field"}, p.Fields[0])
	assert.Equal(t, Field{Name: "email", Message: "email must be a valid email address"}, p.Fields[1])
	assert.Equal(t, "role", p.Fields[2].Name)
	assert.Contains(t, p.Fields[2].Message, "USER ADMIN")
}

func TestProblem_JSONShape(t *testing.T) {
	tr, _ := newTestTranslator(t)
	_, p := tr.Translate(errors.New("boom"))

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"timestamp", "status", "type", "title", "detail", "userMessage"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "fields")
}

func TestTypes_AreDistinct(t *testing.T) {
	paths := map[string]bool{}
	for _, typ := range Types() {
		assert.False(t, paths[typ.Path], "duplicate path %s", typ.Path)
		paths[typ.Path] = true
		assert.NotEmpty(t, typ.Title)
		assert.NotZero(t, typ.Status)
	}
	assert.Len(t, paths, 10)
}
