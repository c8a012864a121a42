package risk

import (
	"fmt"
	"math"
)

// DefaultKellySafety é a fração do Kelly pleno aplicada quando o cliente não informa
const DefaultKellySafety = 0.5

// ValidationError rejeita entrada fora do domínio documentado antes de
// qualquer cálculo; nunca há resultado parcial
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EVInput é a entrada validada do cálculo de valor esperado
type EVInput struct {
	Prob  float64 // probabilidade estimada do evento (0..1)
	Odds  float64 // odd decimal > 1
	Stake float64 // aposta em unidades monetárias, > 0
}

// EVResult traz o EV percentual e absoluto, arredondados a 4 casas
type EVResult struct {
	EVPct float64
	EVAbs float64
}

// ExpectedValue calcula o valor esperado de uma aposta
// ev_pct = prob*(odds-1) - (1-prob); ev_abs = ev_pct * stake
func ExpectedValue(in EVInput) (EVResult, error) {
	if err := checkProb(in.Prob); err != nil {
		return EVResult{}, err
	}
	if err := checkOdds(in.Odds); err != nil {
		return EVResult{}, err
	}
	if in.Stake <= 0 {
		return EVResult{}, &ValidationError{Field: "stake", Reason: "must be greater than 0"}
	}

	b := in.Odds - 1
	evPct := in.Prob*b - (1 - in.Prob)
	return EVResult{
		EVPct: round4(evPct),
		EVAbs: round4(evPct * in.Stake),
	}, nil
}

// KellyInput é a entrada validada da fração de Kelly
type KellyInput struct {
	Prob   float64 // probabilidade estimada do evento (0..1)
	Odds   float64 // odd decimal > 1
	Safety float64 // fração prudencial do Kelly pleno (0..1]
}

// KellyFraction calcula a fração de banca recomendada
// k = (prob*odds - 1)/(odds - 1); edge negativo trava em zero: a calculadora
// nunca recomenda stake negativo/short
func KellyFraction(in KellyInput) (float64, error) {
	if err := checkProb(in.Prob); err != nil {
		return 0, err
	}
	if err := checkOdds(in.Odds); err != nil {
		return 0, err
	}
	if in.Safety <= 0 || in.Safety > 1 {
		return 0, &ValidationError{Field: "safety", Reason: "must be in (0, 1]"}
	}

	b := in.Odds - 1
	k := 0.0
	if b > 0 {
		k = (in.Prob*in.Odds - 1) / b
	}
	return round4(math.Max(0, k) * in.Safety), nil
}

func checkProb(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return &ValidationError{Field: "prob", Reason: "must be between 0 and 1"}
	}
	return nil
}

func checkOdds(o float64) error {
	if math.IsNaN(o) || math.IsInf(o, 0) || o <= 1 {
		return &ValidationError{Field: "odds", Reason: "must be greater than 1"}
	}
	return nil
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
