package service

import (
	"slices"

	"malutoficina/internal/model"

	"github.com/google/uuid"
)

// Ator is the authenticated caller of a service operation.
type Ator struct {
	ID  uuid.UUID
	Rol string
}

// Roles allowed to mutate work orders.
var rolesOrdem = []string{model.RolAdmin, model.RolGerente, model.RolAtendente, model.RolMecanico}

// Roles allowed to register counter sales.
var rolesPDV = []string{model.RolAdmin, model.RolGerente, model.RolAtendente}

func (a Ator) pode(roles []string) bool {
	return slices.Contains(roles, a.Rol)
}
