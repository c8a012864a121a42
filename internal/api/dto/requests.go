package dto

// EVRequest é o payload de /ev
type EVRequest struct {
	Prob  float64 `json:"prob"`  // probabilidade estimada (0..1)
	Odds  float64 `json:"odds"`  // odd decimal > 1
	Stake float64 `json:"stake"` // aposta em unidades monetárias
}

// KellyRequest é o payload de /kelly
// Safety omitido assume o default prudencial (0.5)
type KellyRequest struct {
	Prob   float64 `json:"prob"`
	Odds   float64 `json:"odds"`
	Safety float64 `json:"safety"`
}
