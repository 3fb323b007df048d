package router

import (
	"malutoficina/internal/config"
	"malutoficina/internal/handler"
	"malutoficina/internal/infra"
	"malutoficina/internal/middleware"
	"malutoficina/internal/model"
	"malutoficina/internal/repository"
	"malutoficina/internal/service"
	"malutoficina/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Integracoes are the long-lived clients built once in main and shared by
// the HTTP layer and the background workers.
type Integracoes struct {
	Faturamento   *worker.FaturamentoWorker
	WhatsApp      *infra.WhatsAppClient
	FaturamentoCB *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, integ Integracoes) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter, err := middleware.RateLimiter(rdb, cfg.RateLimit, "api", "Muitas requisições. Tente novamente em instantes.")
	if err != nil {
		return nil, err
	}
	loginLimiter, err := middleware.RateLimiter(rdb, cfg.LoginRateLimit, "login", "Muitas tentativas de login. Tente novamente em 1 minuto.")
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	ordemRepo := repository.NewOrdemServicoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	veiculoRepo := repository.NewVeiculoRepository(db)
	pecaRepo := repository.NewPecaRepository(db)
	servicoRepo := repository.NewServicoRepository(db)
	movRepo := repository.NewMovimentoEstoqueRepository(db)
	lancRepo := repository.NewLancamentoRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	cobrancaRepo := repository.NewCobrancaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cache := infra.NewAlertaCache(rdb)
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	ordemSvc := service.NewOrdemServicoService(ordemRepo, clienteRepo, veiculoRepo, pecaRepo, servicoRepo,
		movRepo, lancRepo, outboxRepo, cache, cfg.StrictStatusFlow)
	pdvSvc := service.NewPDVService(ordemRepo, clienteRepo, veiculoRepo, pecaRepo, servicoRepo,
		movRepo, lancRepo, outboxRepo, cache)
	estoqueSvc := service.NewEstoqueService(pecaRepo, movRepo, cache)
	servicoSvc := service.NewServicoService(servicoRepo)
	clienteSvc := service.NewClienteService(clienteRepo, veiculoRepo)
	financeiroSvc := service.NewFinanceiroService(lancRepo)
	faturamentoSvc := service.NewFaturamentoService(ordemRepo, cobrancaRepo, integ.Faturamento)
	whatsappSvc := service.NewWhatsAppService(integ.WhatsApp)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	ordensH := handler.NewOrdensHandler(ordemSvc, faturamentoSvc)
	pdvH := handler.NewPDVHandler(pdvSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	servicosH := handler.NewServicosHandler(servicoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	financeiroH := handler.NewFinanceiroHandler(financeiroSvc)
	whatsappH := handler.NewWhatsAppHandler(whatsappSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, integ.FaturamentoCB, integ.WhatsApp))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter, authH.Login)
		auth.POST("/refresh", loginLimiter, authH.Refresh)
	}

	const (
		admin      = model.RolAdmin
		gerente    = model.RolGerente
		atendente  = model.RolAtendente
		mecanico   = model.RolMecanico
		financeiro = model.RolFinanceiro
	)
	todos := middleware.RequireRole(admin, gerente, atendente, mecanico, financeiro)
	oficina := middleware.RequireRole(admin, gerente, atendente, mecanico)
	balcao := middleware.RequireRole(admin, gerente, atendente)
	gestao := middleware.RequireRole(admin, gerente)
	caixa := middleware.RequireRole(admin, gerente, financeiro)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		// Work orders. The service re-checks roles on status changes and deletes.
		ordens := v1.Group("/ordens")
		{
			ordens.GET("", todos, ordensH.Listar)
			ordens.GET("/:id", todos, ordensH.Obter)
			ordens.GET("/:id/historico", todos, ordensH.Historico)
			ordens.POST("", oficina, ordensH.Criar)
			ordens.PATCH("/:id/status", oficina, ordensH.AlterarStatus)
			ordens.POST("/:id/itens", oficina, ordensH.AdicionarItem)
			ordens.DELETE("/:id/itens/:item_id", oficina, ordensH.RemoverItem)
			ordens.DELETE("/:id", gestao, ordensH.Excluir)
			ordens.POST("/:id/faturar", caixa, ordensH.Faturar)
			ordens.GET("/:id/cobranca", caixa, ordensH.Cobranca)
		}

		v1.POST("/pdv/vendas", balcao, pdvH.FinalizarVenda)

		pecas := v1.Group("/pecas")
		{
			pecas.GET("", todos, estoqueH.ListarPecas)
			pecas.GET("/:id", todos, estoqueH.ObterPeca)
			pecas.POST("", gestao, estoqueH.CriarPeca)
			pecas.PUT("/:id", gestao, estoqueH.AtualizarPeca)
			pecas.PATCH("/:id/estoque", gestao, estoqueH.AjustarEstoque)
			pecas.POST("/importar", gestao, estoqueH.ImportarPecas)
		}
		estoque := v1.Group("/estoque", todos)
		{
			estoque.GET("/movimentos", estoqueH.ListarMovimentos)
			estoque.GET("/alertas", estoqueH.Alertas)
		}

		servicos := v1.Group("/servicos")
		{
			servicos.GET("", todos, servicosH.Listar)
			servicos.GET("/:id", todos, servicosH.Obter)
			servicos.POST("", gestao, servicosH.Criar)
			servicos.PUT("/:id", gestao, servicosH.Atualizar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.GET("", todos, clientesH.Listar)
			clientes.GET("/:id", todos, clientesH.Obter)
			clientes.GET("/:id/veiculos", todos, clientesH.ListarVeiculos)
			clientes.POST("", balcao, clientesH.Criar)
			clientes.PUT("/:id", balcao, clientesH.Atualizar)
			clientes.DELETE("/:id", gestao, clientesH.Excluir)
		}
		veiculos := v1.Group("/veiculos")
		{
			veiculos.GET("/:id", todos, clientesH.ObterVeiculo)
			veiculos.POST("", balcao, clientesH.CriarVeiculo)
			veiculos.PUT("/:id", balcao, clientesH.AtualizarVeiculo)
			veiculos.DELETE("/:id", gestao, clientesH.ExcluirVeiculo)
		}

		fin := v1.Group("/financeiro", caixa)
		{
			fin.GET("/lancamentos", financeiroH.Listar)
			fin.POST("/lancamentos", financeiroH.CriarDespesa)
			fin.PATCH("/lancamentos/:id/baixar", financeiroH.Baixar)
			fin.GET("/resumo", financeiroH.Resumo)
			fin.GET("/export", financeiroH.Exportar)
		}

		wa := v1.Group("/whatsapp", balcao)
		{
			wa.GET("/status", whatsappH.Status)
			wa.POST("/mensagens", whatsappH.Enviar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(admin))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Debug().Msg("swagger UI enabled at /swagger/index.html")
	}

	return r, nil
}
