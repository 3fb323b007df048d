package service

import "malutoficina/internal/model"

// transicoes lists the allowed next statuses when STRICT_STATUS_FLOW is on.
// Without strict mode any status may follow any other; only the terminal
// boundary drives side effects.
var transicoes = map[model.StatusOS][]model.StatusOS{
	model.StatusAberta:              {model.StatusDiagnostico, model.StatusOrcamento},
	model.StatusDiagnostico:         {model.StatusOrcamento},
	model.StatusOrcamento:           {model.StatusAguardandoAprovacao, model.StatusAprovada},
	model.StatusAguardandoAprovacao: {model.StatusAprovada, model.StatusOrcamento},
	model.StatusAprovada:            {model.StatusEmExecucao},
	model.StatusEmExecucao:          {model.StatusTesteQualidade, model.StatusFinalizada, model.StatusEntregue},
	model.StatusTesteQualidade:      {model.StatusEmExecucao, model.StatusFinalizada, model.StatusEntregue},
	model.StatusFinalizada:          {model.StatusEmExecucao, model.StatusGarantia},
	model.StatusEntregue:            {model.StatusEmExecucao, model.StatusGarantia},
	model.StatusGarantia:            {model.StatusEmExecucao, model.StatusEntregue},
}

// transicaoPermitida reports whether de → para is in the table. Repeating
// the current status is always allowed.
func transicaoPermitida(de, para model.StatusOS) bool {
	if de == para {
		return true
	}
	for _, s := range transicoes[de] {
		if s == para {
			return true
		}
	}
	return false
}

// normalizarMetodo maps the accepted payment method spellings onto the
// canonical constants. Empty input yields DINHEIRO.
func normalizarMetodo(m *string) (string, bool) {
	if m == nil || *m == "" {
		return model.MetodoDinheiro, true
	}
	switch *m {
	case model.MetodoDinheiro, "CASH":
		return model.MetodoDinheiro, true
	case model.MetodoPix:
		return model.MetodoPix, true
	case model.MetodoCartaoCredito, "CREDIT_CARD":
		return model.MetodoCartaoCredito, true
	case model.MetodoCartaoDebito, "DEBIT_CARD":
		return model.MetodoCartaoDebito, true
	case model.MetodoBoleto:
		return model.MetodoBoleto, true
	case model.MetodoTransferencia, "TRANSFER":
		return model.MetodoTransferencia, true
	}
	return "", false
}
