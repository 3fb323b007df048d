package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors returned by the service layer. Callers wrap them with
// context via fmt.Errorf("%w: ...") and handlers map them with errors.Is.
var (
	ErrNaoEncontrado     = errors.New("registro não encontrado")
	ErrJaFinalizada      = errors.New("ordem de serviço já finalizada")
	ErrNaoAutorizado     = errors.New("permissão insuficiente")
	ErrValidacao         = errors.New("dados inválidos")
	ErrIntegracao        = errors.New("falha na integração externa")
	ErrTransicaoInvalida = errors.New("transição de status não permitida")
	ErrConflito          = errors.New("registro duplicado")
	ErrCredenciais       = errors.New("credenciais inválidas")
)

// notFound converts gorm.ErrRecordNotFound into ErrNaoEncontrado and passes
// any other error through unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNaoEncontrado, what)
	}
	return err
}
