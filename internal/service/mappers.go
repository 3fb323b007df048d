package service

import (
	"time"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"

	"github.com/google/uuid"
)

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timePtrString(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

func ordemToResponse(o *model.OrdemServico) *dto.OrdemResponse {
	resp := &dto.OrdemResponse{
		ID:            o.ID.String(),
		Numero:        o.Numero,
		Status:        string(o.Status),
		ClienteID:     o.ClienteID.String(),
		VeiculoID:     uuidPtrString(o.VeiculoID),
		VendedorID:    uuidPtrString(o.VendedorID),
		TotalPecas:    o.TotalPecas,
		TotalServicos: o.TotalServicos,
		Desconto:      o.Desconto,
		ValorTotal:    o.ValorTotal,
		KM:            o.KM,
		Observacoes:   o.Observacoes,
		Itens:         make([]dto.ItemResponse, len(o.Itens)),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.Format(time.RFC3339),
	}
	if o.Cliente != nil {
		resp.ClienteNome = o.Cliente.Nome
	}
	if o.Veiculo != nil {
		resp.VeiculoPlaca = o.Veiculo.Placa
	}
	for i, it := range o.Itens {
		resp.Itens[i] = dto.ItemResponse{
			ID:            it.ID.String(),
			Tipo:          string(it.Tipo),
			Descricao:     it.Descricao,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
			DescontoPct:   it.DescontoPct,
			Total:         it.Total,
			PecaID:        uuidPtrString(it.PecaID),
			ServicoID:     uuidPtrString(it.ServicoID),
		}
	}
	return resp
}

func historicoToResponse(h *model.HistoricoStatus) dto.HistoricoResponse {
	r := dto.HistoricoResponse{
		ID:             h.ID.String(),
		StatusAnterior: string(h.StatusAnterior),
		StatusNovo:     string(h.StatusNovo),
		UsuarioID:      h.UsuarioID.String(),
		Observacao:     h.Observacao,
		CreatedAt:      h.CreatedAt.Format(time.RFC3339),
	}
	if h.Usuario != nil {
		r.UsuarioNome = h.Usuario.Nome
	}
	return r
}

func pecaToResponse(p *model.Peca) dto.PecaResponse {
	return dto.PecaResponse{
		ID:            p.ID.String(),
		Codigo:        p.Codigo,
		Nome:          p.Nome,
		Descricao:     p.Descricao,
		Marca:         p.Marca,
		PrecoCusto:    p.PrecoCusto,
		PrecoVenda:    p.PrecoVenda,
		Estoque:       p.Estoque,
		EstoqueMinimo: p.EstoqueMinimo,
		Ativo:         p.Ativo,
	}
}

func movimentoToResponse(m *model.MovimentoEstoque) dto.MovimentoResponse {
	r := dto.MovimentoResponse{
		ID:              m.ID.String(),
		PecaID:          m.PecaID.String(),
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Referencia:      m.Referencia,
		OrdemServicoID:  uuidPtrString(m.OrdemServicoID),
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	if m.Peca != nil {
		r.PecaNome = m.Peca.Nome
	}
	return r
}

func lancamentoToResponse(l *model.LancamentoFinanceiro) dto.LancamentoResponse {
	return dto.LancamentoResponse{
		ID:              l.ID.String(),
		Tipo:            l.Tipo,
		Descricao:       l.Descricao,
		Categoria:       l.Categoria,
		Valor:           l.Valor,
		ValorCusto:      l.ValorCusto,
		Status:          l.Status,
		MetodoPagamento: l.MetodoPagamento,
		OrdemServicoID:  uuidPtrString(l.OrdemServicoID),
		Vencimento:      timePtrString(l.Vencimento, "2006-01-02"),
		PagoEm:          timePtrString(l.PagoEm, time.RFC3339),
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	r := dto.ClienteResponse{
		ID:        c.ID.String(),
		Nome:      c.Nome,
		Documento: c.Documento,
		Telefone:  c.Telefone,
		Email:     c.Email,
		Endereco:  c.Endereco,
	}
	for i := range c.Veiculos {
		r.Veiculos = append(r.Veiculos, veiculoToResponse(&c.Veiculos[i]))
	}
	return r
}

func veiculoToResponse(v *model.Veiculo) dto.VeiculoResponse {
	return dto.VeiculoResponse{
		ID:        v.ID.String(),
		ClienteID: v.ClienteID.String(),
		Placa:     v.Placa,
		Marca:     v.Marca,
		Modelo:    v.Modelo,
		Ano:       v.Ano,
		Cor:       v.Cor,
		KM:        v.KM,
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nome:     u.Nome,
		Email:    u.Email,
		Telefone: u.Telefone,
		Rol:      u.Rol,
		Comissao: u.Comissao,
		Ativo:    u.Ativo,
	}
}

func cobrancaToResponse(c *model.CobrancaExterna) *dto.CobrancaResponse {
	return &dto.CobrancaResponse{
		ID:              c.ID.String(),
		OrdemServicoID:  c.OrdemServicoID.String(),
		Tipo:            c.Tipo,
		IDExterno:       c.IDExterno,
		URL:             c.URL,
		Valor:           c.Valor,
		Estado:          c.Estado,
		MetodoPagamento: c.MetodoPagamento,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}
