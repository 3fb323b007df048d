package handler

import (
	"errors"
	"net/http"
	"reflect"

	"malutoficina/internal/apierror"
	"malutoficina/internal/middleware"
	"malutoficina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false after writing the error response; the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses a path parameter, answering 400 on failure.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// ator builds the acting user from the JWT claims.
func ator(c *gin.Context) service.Ator {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Ator{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Ator{ID: id, Rol: claims.Rol}
}

// statusFor maps service sentinel errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrJaFinalizada),
		errors.Is(err, service.ErrTransicaoInvalida),
		errors.Is(err, service.ErrConflito):
		return http.StatusConflict
	case errors.Is(err, service.ErrNaoAutorizado):
		return http.StatusForbidden
	case errors.Is(err, service.ErrValidacao):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrIntegracao):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrCredenciais):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Unknown errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("unexpected service error")
		c.JSON(status, apierror.New("Erro interno do servidor"))
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}
