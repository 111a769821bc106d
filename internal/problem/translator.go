package problem

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"project_tracker/internal/patch"
	"project_tracker/internal/service"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Translator maps errors raised while handling a request to a status and Problem document
type Translator struct {
	baseURI string
	trans   ut.Translator
	now     func() time.Time
}

// NewTranslator creates a Translator whose type URIs start with baseURI. When v is
// not nil, English messages and JSON field names are registered on it.
func NewTranslator(baseURI string, v *validator.Validate) (*Translator, error) {
	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")

	if v != nil {
		v.RegisterTagNameFunc(jsonFieldName)
		if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
			return nil, fmt.Errorf("failed to register validation messages: %w", err)
		}
	}

	return &Translator{
		baseURI: strings.TrimSuffix(baseURI, "/"),
		trans:   trans,
		now:     time.Now,
	}, nil
}

// Translate classifies err. Unrecognized errors become a 500 whose text never reaches the caller.
func (t *Translator) Translate(err error) (int, Problem) {
	var (
		notFound      *service.EntityNotFoundError
		refNotFound   *service.ReferenceNotFoundError
		alreadyExists *service.EntityAlreadyExistsError
		inUse         *service.EntityInUseError
		notExist      *patch.PropertyNotExistError
		invalidValue  *patch.InvalidValueError
		invalidParam  *InvalidParameterError
		routeNotFound *RouteNotFoundError
		malformed     *MalformedBodyError
		invalidFields validator.ValidationErrors
	)

	switch {
	case errors.As(err, &notFound):
		return t.build(http.StatusNotFound, ResourceNotFound, notFound.Message, UserMessageSystemError, nil)
	case errors.As(err, &refNotFound):
		return t.build(http.StatusBadRequest, ResourceNotFound, refNotFound.Message, UserMessageSystemError, nil)
	case errors.As(err, &alreadyExists):
		return t.build(http.StatusBadRequest, EntityAlreadyExists, alreadyExists.Message, alreadyExists.Message, nil)
	case errors.As(err, &inUse):
		return t.build(http.StatusBadRequest, EntityInUse, inUse.Message, UserMessageEntityInUse, nil)
	case errors.As(err, &notExist):
		return t.build(http.StatusConflict, PropertyNotExist, notExist.Error(), UserMessageSystemError, nil)
	case errors.As(err, &invalidValue):
		detail := fmt.Sprintf("Property '%s' received a value of invalid type. Correct and enter a value compatible with the property type.", invalidValue.Property)
		var typeErr *json.UnmarshalTypeError
		if errors.As(invalidValue.Err, &typeErr) {
			detail = typeMismatchDetail(invalidValue.Property, typeErr)
		}
		return t.build(http.StatusBadRequest, IncomprehensibleMessage, detail, UserMessageSystemError, nil)
	case errors.As(err, &invalidParam):
		return t.build(http.StatusBadRequest, InvalidParameter, invalidParam.Error(), UserMessageSystemError, nil)
	case errors.As(err, &invalidFields):
		return t.build(http.StatusBadRequest, InvalidData, DetailInvalidData, DetailInvalidData, t.fields(invalidFields))
	case errors.As(err, &malformed):
		return t.malformedBody(malformed.Err)
	case errors.As(err, &routeNotFound):
		return t.build(http.StatusNotFound, ResourceNotFound, routeNotFound.Error(), UserMessageSystemError, nil)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return t.build(http.StatusUnauthorized, Unauthorized, err.Error(), err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		return t.build(http.StatusForbidden, AccessDenied, err.Error(), err.Error(), nil)
	}
	return t.build(http.StatusInternalServerError, InternalServerError, UserMessageSystemError, UserMessageSystemError, nil)
}

func (t *Translator) malformedBody(err error) (int, Problem) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return t.build(http.StatusBadRequest, IncomprehensibleMessage, typeMismatchDetail(typeErr.Field, typeErr), UserMessageSystemError, nil)
	}
	if name, ok := unknownField(err); ok {
		detail := (&patch.PropertyNotExistError{Property: name}).Error()
		return t.build(http.StatusBadRequest, PropertyNotExist, detail, UserMessageSystemError, nil)
	}
	return t.build(http.StatusBadRequest, IncomprehensibleMessage, DetailMalformedBody, UserMessageSystemError, nil)
}

func (t *Translator) fields(errs validator.ValidationErrors) []Field {
	fields := make([]Field, 0, len(errs))
	seen := make(map[string]bool, len(errs))
	for _, fe := range errs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, Field{Name: fe.Field(), Message: fe.Translate(t.trans)})
	}
	return fields
}

func (t *Translator) build(status int, typ Type, detail, userMessage string, fields []Field) (int, Problem) {
	return status, Problem{
		Timestamp:   t.now(),
		Status:      status,
		Type:        typ.URI(t.baseURI),
		Title:       typ.Title,
		Detail:      detail,
		UserMessage: userMessage,
		Fields:      fields,
	}
}

func typeMismatchDetail(property string, typeErr *json.UnmarshalTypeError) string {
	return fmt.Sprintf("Property '%s' received a value of type '%s', which is of invalid type. Correct and enter a value compatible with type '%s'.",
		property, typeErr.Value, typeErr.Type)
}

// unknownField extracts the name from encoding/json's DisallowUnknownFields error
func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	name, uerr := strconv.Unquote(strings.TrimPrefix(msg, prefix))
	if uerr != nil {
		return "", false
	}
	return name, true
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
