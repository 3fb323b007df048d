package dto

import (
	"encoding/json"
	"strings"
)

// CampoOpcional distinguishes "key absent" from "key present with null/empty".
// Presente is true whenever the key appears in the JSON body; Valor is nil
// for null or "".
type CampoOpcional struct {
	Presente bool
	Valor    *string
}

func (c *CampoOpcional) UnmarshalJSON(b []byte) error {
	c.Presente = true
	if string(b) == "null" {
		c.Valor = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		c.Valor = nil
		return nil
	}
	c.Valor = &s
	return nil
}

func (c CampoOpcional) MarshalJSON() ([]byte, error) {
	if c.Valor == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*c.Valor)
}

// Definir builds a present field; nil clears.
func Definir(v *string) CampoOpcional { return CampoOpcional{Presente: true, Valor: v} }
