package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// efeitosTerminais holds the side effects fired at the terminal-status
// boundary. Both the status PATCH and the PDV finalize path go through it,
// always inside the caller's transaction.
type efeitosTerminais struct {
	pecaRepo   repository.PecaRepository
	movRepo    repository.MovimentoEstoqueRepository
	lancRepo   repository.LancamentoRepository
	outboxRepo repository.OutboxRepository
	agora      func() time.Time
}

func newEfeitosTerminais(
	pecaRepo repository.PecaRepository,
	movRepo repository.MovimentoEstoqueRepository,
	lancRepo repository.LancamentoRepository,
	outboxRepo repository.OutboxRepository,
) *efeitosTerminais {
	return &efeitosTerminais{
		pecaRepo:   pecaRepo,
		movRepo:    movRepo,
		lancRepo:   lancRepo,
		outboxRepo: outboxRepo,
		agora:      time.Now,
	}
}

// entradaTerminal runs when an order enters FINALIZADA/ENTREGUE from a
// non-terminal status (or is created terminal by the PDV):
//  1. SAIDA movement + stock decrement per linked PECA item, accumulating CMV
//  2. one RECEITA ledger entry (skipped if the order was billed before)
//  3. os.finalizada outbox event
func (e *efeitosTerminais) entradaTerminal(tx *gorm.DB, ordem *model.OrdemServico, metodo string) error {
	ref := fmt.Sprintf("OS #%d", ordem.Numero)
	cmv := decimal.Zero

	for _, it := range ordem.Itens {
		if !it.MovimentaEstoque() {
			continue
		}
		peca, err := e.pecaRepo.FindByIDForUpdateTx(tx, *it.PecaID)
		if err != nil {
			return fmt.Errorf("item %q: %w", it.Descricao, notFound(err, "peça "+it.PecaID.String()))
		}
		cmv = cmv.Add(peca.PrecoCusto.Mul(decimal.NewFromInt(int64(it.Quantidade))))
		if err := registrarMovimento(tx, e.pecaRepo, e.movRepo, &ordem.ID, peca, model.MovimentoSaida, it.Quantidade, ref); err != nil {
			return err
		}
	}

	existente, err := e.lancRepo.FindReceitaByOrdemTx(tx, ordem.ID)
	switch {
	case err == nil:
		// Billed on an earlier terminal entry; financial history is kept as is.
		log.Warn().
			Str("ordem_id", ordem.ID.String()).
			Str("lancamento_id", existente.ID.String()).
			Str("valor_atual", ordem.ValorTotal.StringFixed(2)).
			Str("valor_lancado", existente.Valor.StringFixed(2)).
			Msg("efeitos: ordem já possui receita, lançamento não duplicado")
	case errors.Is(err, gorm.ErrRecordNotFound):
		l := &model.LancamentoFinanceiro{
			Tipo:            model.LancamentoReceita,
			Descricao:       fmt.Sprintf("Receita %s", ref),
			Categoria:       "SERVICOS",
			Valor:           ordem.ValorTotal,
			ValorCusto:      cmv,
			MetodoPagamento: metodo,
			OrdemServicoID:  &ordem.ID,
		}
		if metodo == model.MetodoBoleto {
			l.Status = model.LancamentoPendente
		} else {
			l.Status = model.LancamentoPago
			agora := e.agora()
			l.PagoEm = &agora
		}
		if err := e.lancRepo.CreateTx(tx, l); err != nil {
			return fmt.Errorf("criar lançamento: %w", err)
		}
	default:
		return fmt.Errorf("consultar lançamento: %w", err)
	}

	return e.registrarEvento(tx, model.EventoOSFinalizada, ordem, map[string]interface{}{
		"metodo_pagamento": metodo,
		"cmv":              cmv.StringFixed(2),
	})
}

// estorno runs when an order leaves terminal status: every SAIDA made on
// entry is matched by an ENTRADA of the same quantity. The ledger entry is
// left untouched.
func (e *efeitosTerminais) estorno(tx *gorm.DB, ordem *model.OrdemServico) error {
	ref := fmt.Sprintf("ESTORNO OS #%d", ordem.Numero)
	for _, it := range ordem.Itens {
		if !it.MovimentaEstoque() {
			continue
		}
		peca, err := e.pecaRepo.FindByIDForUpdateTx(tx, *it.PecaID)
		if err != nil {
			return fmt.Errorf("item %q: %w", it.Descricao, notFound(err, "peça "+it.PecaID.String()))
		}
		if err := registrarMovimento(tx, e.pecaRepo, e.movRepo, &ordem.ID, peca, model.MovimentoEntrada, it.Quantidade, ref); err != nil {
			return err
		}
	}
	return e.registrarEvento(tx, model.EventoOSReaberta, ordem, nil)
}

func (e *efeitosTerminais) registrarEvento(tx *gorm.DB, tipo string, ordem *model.OrdemServico, extra map[string]interface{}) error {
	payload := map[string]interface{}{
		"ordem_id":    ordem.ID.String(),
		"numero":      ordem.Numero,
		"status":      string(ordem.Status),
		"cliente_id":  ordem.ClienteID.String(),
		"valor_total": ordem.ValorTotal.StringFixed(2),
	}
	for k, v := range extra {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.outboxRepo.CreateTx(tx, &model.OutboxEvento{
		Tipo:       tipo,
		AgregadoID: ordem.ID,
		Payload:    datatypes.JSON(data),
		Estado:     "pendente",
	})
}
