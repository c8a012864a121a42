package quotes

import "math"

// ImpliedProbability converte uma odd decimal em probabilidade implícita (1/odd),
// arredondada a 4 casas. Entrada inválida degrada para 0.0 em vez de falhar:
// probabilidade aqui é grandeza derivada de exibição, não entrada de controle
func ImpliedProbability(price float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0.0
	}
	return round4(1 / price)
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
