package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"malutoficina/internal/dto"
	"malutoficina/internal/infra"
	"malutoficina/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ImportarPecas upserts parts from an XLSX sheet keyed by codigo. A row whose
// stock differs from the current one produces an "IMPORTACAO" movement, so
// the ledger stays complete.
func (s *estoqueService) ImportarPecas(ctx context.Context, ator Ator, r io.Reader) (*dto.ImportarPecasResponse, error) {
	linhas, linhaErros, err := infra.LerPlanilhaPecas(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidacao, err)
	}
	resp := &dto.ImportarPecasResponse{Erros: []string{}}
	for _, e := range linhaErros {
		resp.Erros = append(resp.Erros, e.Error())
	}
	if len(linhas) == 0 {
		return resp, nil
	}

	vistos := map[string]int{}
	err = runTx(ctx, s.pecaRepo.DB(), func(tx *gorm.DB) error {
		for _, l := range linhas {
			codigo := strings.ToUpper(strings.TrimSpace(l.Codigo))
			if primeira, dup := vistos[codigo]; dup {
				resp.Erros = append(resp.Erros, fmt.Sprintf("linha %d: código %s repetido (linha %d)", l.Linha, codigo, primeira))
				continue
			}
			vistos[codigo] = l.Linha
			existente, err := s.pecaRepo.FindByCodigo(ctx, codigo)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				p := &model.Peca{
					Codigo:        codigo,
					Nome:          l.Nome,
					PrecoCusto:    l.PrecoCusto,
					PrecoVenda:    l.PrecoVenda,
					EstoqueMinimo: l.EstoqueMinimo,
					Ativo:         true,
				}
				if err := s.pecaRepo.CreateTx(tx, p); err != nil {
					return err
				}
				if l.Estoque > 0 {
					if err := registrarMovimento(tx, s.pecaRepo, s.movRepo, nil, p, model.MovimentoEntrada, l.Estoque, "IMPORTACAO"); err != nil {
						return err
					}
				}
				resp.Criadas++
			case err != nil:
				return err
			default:
				p, err := s.pecaRepo.FindByIDForUpdateTx(tx, existente.ID)
				if err != nil {
					return err
				}
				p.Nome = l.Nome
				p.PrecoCusto = l.PrecoCusto
				p.PrecoVenda = l.PrecoVenda
				p.EstoqueMinimo = l.EstoqueMinimo
				p.Ativo = true
				if err := s.pecaRepo.UpdateCatalogoTx(tx, p); err != nil {
					return err
				}
				if delta := l.Estoque - p.Estoque; delta != 0 {
					tipo, qtd := model.MovimentoEntrada, delta
					if delta < 0 {
						tipo, qtd = model.MovimentoSaida, -delta
					}
					if err := registrarMovimento(tx, s.pecaRepo, s.movRepo, nil, p, tipo, qtd, "IMPORTACAO"); err != nil {
						return err
					}
				}
				resp.Atualizadas++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	log.Info().
		Int("criadas", resp.Criadas).
		Int("atualizadas", resp.Atualizadas).
		Int("erros", len(resp.Erros)).
		Str("usuario_id", ator.ID.String()).
		Msg("importação de peças concluída")
	return resp, nil
}
