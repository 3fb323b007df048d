package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"malutoficina/internal/dto"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// Every *Tx method accepts a nil *gorm.DB: with DB() returning nil the
// services run their transaction bodies directly (see runTx).

// stubOrdemRepo is an in-memory OrdemServicoRepository.
type stubOrdemRepo struct {
	ordens    map[uuid.UUID]*model.OrdemServico
	historico []model.HistoricoStatus
	seq       int
}

func newStubOrdemRepo() *stubOrdemRepo {
	return &stubOrdemRepo{ordens: make(map[uuid.UUID]*model.OrdemServico)}
}

func (r *stubOrdemRepo) Create(_ context.Context, _ *gorm.DB, o *model.OrdemServico) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Itens {
		if o.Itens[i].ID == uuid.Nil {
			o.Itens[i].ID = uuid.New()
		}
		o.Itens[i].OrdemServicoID = o.ID
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.ordens[o.ID] = o
	return nil
}

func (r *stubOrdemRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubOrdemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	o, ok := r.ordens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrdemRepo) List(_ context.Context, f repository.OrdemFilter) ([]model.OrdemServico, int64, error) {
	var out []model.OrdemServico
	for _, o := range r.ordens {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.ClienteID != nil && o.ClienteID != *f.ClienteID {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Numero > out[j].Numero })
	return out, int64(len(out)), nil
}

func (r *stubOrdemRepo) ListHistorico(_ context.Context, ordemID uuid.UUID) ([]model.HistoricoStatus, error) {
	var out []model.HistoricoStatus
	for _, h := range r.historico {
		if h.OrdemServicoID == ordemID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubOrdemRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.OrdemServico, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrdemRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status model.StatusOS) error {
	o, ok := r.ordens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrdemRepo) UpdateVendedorTx(_ *gorm.DB, id uuid.UUID, vendedorID *uuid.UUID) error {
	o, ok := r.ordens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.VendedorID = vendedorID
	return nil
}

func (r *stubOrdemRepo) UpdateTotaisTx(_ *gorm.DB, _ *model.OrdemServico) error { return nil }

// CreateItemTx only assigns the ID; the service appends the item to the
// order it holds, which is the stored pointer.
func (r *stubOrdemRepo) CreateItemTx(_ *gorm.DB, item *model.OrdemServicoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return nil
}

func (r *stubOrdemRepo) DeleteItemTx(_ *gorm.DB, ordemID, itemID uuid.UUID) error {
	o, ok := r.ordens[ordemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, it := range o.Itens {
		if it.ID == itemID {
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrdemRepo) SoftDeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.ordens, id)
	return nil
}

func (r *stubOrdemRepo) CreateHistoricoTx(_ *gorm.DB, h *model.HistoricoStatus) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.historico = append(r.historico, *h)
	return nil
}

func (r *stubOrdemRepo) DB() *gorm.DB { return nil }

var _ repository.OrdemServicoRepository = (*stubOrdemRepo)(nil)

// stubClienteRepo is an in-memory ClienteRepository.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, f dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if f.Busca != "" && !strings.Contains(strings.ToLower(c.Nome), strings.ToLower(f.Busca)) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.clientes, id)
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubVeiculoRepo is an in-memory VeiculoRepository.
type stubVeiculoRepo struct {
	veiculos map[uuid.UUID]*model.Veiculo
}

func newStubVeiculoRepo() *stubVeiculoRepo {
	return &stubVeiculoRepo{veiculos: make(map[uuid.UUID]*model.Veiculo)}
}

func (r *stubVeiculoRepo) Create(_ context.Context, v *model.Veiculo) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.veiculos[v.ID] = v
	return nil
}

func (r *stubVeiculoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Veiculo, error) {
	v, ok := r.veiculos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVeiculoRepo) FindByPlaca(_ context.Context, placa string) (*model.Veiculo, error) {
	for _, v := range r.veiculos {
		if v.Placa == placa {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVeiculoRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.Veiculo, error) {
	var out []model.Veiculo
	for _, v := range r.veiculos {
		if v.ClienteID == clienteID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVeiculoRepo) Update(_ context.Context, v *model.Veiculo) error {
	r.veiculos[v.ID] = v
	return nil
}

func (r *stubVeiculoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.veiculos, id)
	return nil
}

var _ repository.VeiculoRepository = (*stubVeiculoRepo)(nil)

// stubPecaRepo is an in-memory PecaRepository.
type stubPecaRepo struct {
	pecas map[uuid.UUID]*model.Peca
}

func newStubPecaRepo() *stubPecaRepo {
	return &stubPecaRepo{pecas: make(map[uuid.UUID]*model.Peca)}
}

// add registers a part directly, bypassing the service.
func (r *stubPecaRepo) add(codigo string, custo, venda float64, estoque, minimo int) *model.Peca {
	p := &model.Peca{
		ID:            uuid.New(),
		Codigo:        codigo,
		Nome:          "Peça " + codigo,
		PrecoCusto:    decimal.NewFromFloat(custo),
		PrecoVenda:    decimal.NewFromFloat(venda),
		Estoque:       estoque,
		EstoqueMinimo: minimo,
		Ativo:         true,
	}
	r.pecas[p.ID] = p
	return p
}

func (r *stubPecaRepo) Create(_ context.Context, p *model.Peca) error {
	return r.CreateTx(nil, p)
}

func (r *stubPecaRepo) CreateTx(_ *gorm.DB, p *model.Peca) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pecas[p.ID] = p
	return nil
}

func (r *stubPecaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Peca, error) {
	p, ok := r.pecas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPecaRepo) FindByCodigo(_ context.Context, codigo string) (*model.Peca, error) {
	for _, p := range r.pecas {
		if p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPecaRepo) List(_ context.Context, _ dto.PecaFilter) ([]model.Peca, int64, error) {
	var out []model.Peca
	for _, p := range r.pecas {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPecaRepo) Update(_ context.Context, p *model.Peca) error {
	r.pecas[p.ID] = p
	return nil
}

func (r *stubPecaRepo) UpdateCatalogoTx(_ *gorm.DB, p *model.Peca) error {
	cur, ok := r.pecas[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Nome = p.Nome
	cur.PrecoCusto = p.PrecoCusto
	cur.PrecoVenda = p.PrecoVenda
	cur.EstoqueMinimo = p.EstoqueMinimo
	cur.Ativo = p.Ativo
	return nil
}

func (r *stubPecaRepo) ListAbaixoMinimo(_ context.Context) ([]model.Peca, error) {
	var out []model.Peca
	for _, p := range r.pecas {
		if p.Ativo && p.Estoque <= p.EstoqueMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

// FindByIDForUpdateTx returns a copy, as a real SELECT would, so the
// service's own bookkeeping on the returned value is what gets tested.
func (r *stubPecaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Peca, error) {
	p, ok := r.pecas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPecaRepo) UpdateEstoqueTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.pecas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estoque += delta
	return nil
}

func (r *stubPecaRepo) DB() *gorm.DB { return nil }

var _ repository.PecaRepository = (*stubPecaRepo)(nil)

// stubServicoRepo is an in-memory ServicoRepository.
type stubServicoRepo struct {
	servicos map[uuid.UUID]*model.ServicoCatalogo
}

func newStubServicoRepo() *stubServicoRepo {
	return &stubServicoRepo{servicos: make(map[uuid.UUID]*model.ServicoCatalogo)}
}

func (r *stubServicoRepo) Create(_ context.Context, s *model.ServicoCatalogo) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.servicos[s.ID] = s
	return nil
}

func (r *stubServicoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ServicoCatalogo, error) {
	s, ok := r.servicos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubServicoRepo) List(_ context.Context, incluirInativos bool) ([]model.ServicoCatalogo, error) {
	var out []model.ServicoCatalogo
	for _, s := range r.servicos {
		if s.Ativo || incluirInativos {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubServicoRepo) Update(_ context.Context, s *model.ServicoCatalogo) error {
	r.servicos[s.ID] = s
	return nil
}

var _ repository.ServicoRepository = (*stubServicoRepo)(nil)

// stubMovRepo records stock movements.
type stubMovRepo struct {
	movimentos []model.MovimentoEstoque
}

func (r *stubMovRepo) CreateTx(_ *gorm.DB, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubMovRepo) List(_ context.Context, f repository.MovimentoFilter) ([]model.MovimentoEstoque, int64, error) {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if f.PecaID != nil && m.PecaID != *f.PecaID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovRepo) doTipo(tipo string) []model.MovimentoEstoque {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.MovimentoEstoqueRepository = (*stubMovRepo)(nil)

// stubLancRepo is an in-memory ledger.
type stubLancRepo struct {
	lancamentos  map[uuid.UUID]*model.LancamentoFinanceiro
	ultimoFiltro repository.LancamentoFilter
}

func newStubLancRepo() *stubLancRepo {
	return &stubLancRepo{lancamentos: make(map[uuid.UUID]*model.LancamentoFinanceiro)}
}

func (r *stubLancRepo) Create(_ context.Context, l *model.LancamentoFinanceiro) error {
	return r.CreateTx(nil, l)
}

func (r *stubLancRepo) CreateTx(_ *gorm.DB, l *model.LancamentoFinanceiro) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.lancamentos[l.ID] = l
	return nil
}

func (r *stubLancRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LancamentoFinanceiro, error) {
	l, ok := r.lancamentos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLancRepo) FindReceitaByOrdemTx(_ *gorm.DB, ordemID uuid.UUID) (*model.LancamentoFinanceiro, error) {
	for _, l := range r.lancamentos {
		if l.Tipo == model.LancamentoReceita && l.OrdemServicoID != nil && *l.OrdemServicoID == ordemID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLancRepo) List(_ context.Context, f repository.LancamentoFilter) ([]model.LancamentoFinanceiro, int64, error) {
	r.ultimoFiltro = f
	var out []model.LancamentoFinanceiro
	for _, l := range r.lancamentos {
		if f.Tipo != "" && l.Tipo != f.Tipo {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.OrdemID != nil && (l.OrdemServicoID == nil || *l.OrdemServicoID != *f.OrdemID) {
			continue
		}
		out = append(out, *l)
	}
	total := int64(len(out))
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *stubLancRepo) Update(_ context.Context, l *model.LancamentoFinanceiro) error {
	r.lancamentos[l.ID] = l
	return nil
}

func (r *stubLancRepo) Resumo(_ context.Context, desde, ate time.Time) ([]repository.LinhaResumo, error) {
	type chave struct{ tipo, status string }
	agg := map[chave]*repository.LinhaResumo{}
	for _, l := range r.lancamentos {
		if l.CreatedAt.Before(desde) || !l.CreatedAt.Before(ate) {
			continue
		}
		k := chave{l.Tipo, l.Status}
		if agg[k] == nil {
			agg[k] = &repository.LinhaResumo{Tipo: l.Tipo, Status: l.Status}
		}
		agg[k].Valor = agg[k].Valor.Add(l.Valor)
		agg[k].ValorCusto = agg[k].ValorCusto.Add(l.ValorCusto)
	}
	var out []repository.LinhaResumo
	for _, v := range agg {
		out = append(out, *v)
	}
	return out, nil
}

func (r *stubLancRepo) receitas() []model.LancamentoFinanceiro {
	var out []model.LancamentoFinanceiro
	for _, l := range r.lancamentos {
		if l.Tipo == model.LancamentoReceita {
			out = append(out, *l)
		}
	}
	return out
}

var _ repository.LancamentoRepository = (*stubLancRepo)(nil)

// stubOutboxRepo records outbox events.
type stubOutboxRepo struct {
	eventos []model.OutboxEvento
}

func (r *stubOutboxRepo) CreateTx(_ *gorm.DB, e *model.OutboxEvento) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.eventos = append(r.eventos, *e)
	return nil
}

func (r *stubOutboxRepo) ListPendentes(_ context.Context, limit int) ([]model.OutboxEvento, error) {
	var out []model.OutboxEvento
	for _, e := range r.eventos {
		if e.Estado == "pendente" && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubOutboxRepo) MarcarEnviado(_ context.Context, id uuid.UUID) error {
	for i := range r.eventos {
		if r.eventos[i].ID == id {
			r.eventos[i].Estado = "enviado"
		}
	}
	return nil
}

func (r *stubOutboxRepo) RegistrarFalha(_ context.Context, id uuid.UUID, msg string) error {
	for i := range r.eventos {
		if r.eventos[i].ID == id {
			r.eventos[i].Tentativas++
			r.eventos[i].UltimoErro = &msg
		}
	}
	return nil
}

func (r *stubOutboxRepo) doTipo(tipo string) []model.OutboxEvento {
	var out []model.OutboxEvento
	for _, e := range r.eventos {
		if e.Tipo == tipo {
			out = append(out, e)
		}
	}
	return out
}

var _ repository.OutboxRepository = (*stubOutboxRepo)(nil)

// stubUsuarioRepo is an in-memory UsuarioRepository.
type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Ativo && u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) ExisteUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInativos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Ativo || incluirInativos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SetAtivo(_ context.Context, id uuid.UUID, ativo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Ativo = ativo
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubCobrancaRepo is an in-memory CobrancaRepository.
type stubCobrancaRepo struct {
	cobrancas map[uuid.UUID]*model.CobrancaExterna
}

func newStubCobrancaRepo() *stubCobrancaRepo {
	return &stubCobrancaRepo{cobrancas: make(map[uuid.UUID]*model.CobrancaExterna)}
}

func (r *stubCobrancaRepo) Create(_ context.Context, c *model.CobrancaExterna) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cobrancas[c.ID] = c
	return nil
}

func (r *stubCobrancaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CobrancaExterna, error) {
	c, ok := r.cobrancas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCobrancaRepo) FindByOrdemID(_ context.Context, ordemID uuid.UUID) (*model.CobrancaExterna, error) {
	for _, c := range r.cobrancas {
		if c.OrdemServicoID == ordemID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCobrancaRepo) Update(_ context.Context, c *model.CobrancaExterna) error {
	r.cobrancas[c.ID] = c
	return nil
}

func (r *stubCobrancaRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.CobrancaExterna, error) {
	var out []model.CobrancaExterna
	for _, c := range r.cobrancas {
		if c.Estado == "erro" && c.NextRetryAt != nil && !c.NextRetryAt.After(now) && len(out) < limit {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CobrancaRepository = (*stubCobrancaRepo)(nil)

// stubCache counts invalidations of the low-stock alert cache.
type stubCache struct {
	alertas      []dto.AlertaEstoqueResponse
	cheio        bool
	salvos       int
	invalidacoes int
}

func (c *stubCache) Alertas(_ context.Context) ([]dto.AlertaEstoqueResponse, bool) {
	return c.alertas, c.cheio
}

func (c *stubCache) SalvarAlertas(_ context.Context, alertas []dto.AlertaEstoqueResponse) {
	c.alertas, c.cheio = alertas, true
	c.salvos++
}

func (c *stubCache) Invalidar(_ context.Context) {
	c.alertas, c.cheio = nil, false
	c.invalidacoes++
}
