package inventory

import "github.com/shopspring/decimal"

// WeightedCost implementa el costo promedio ponderado al recibir mercancía.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedCost(stock int64, currentCost decimal.Decimal, incoming int64, incomingCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	sum := stock + incoming
	if sum <= 0 {
		return incomingCost
	}
	num := decimal.NewFromInt(stock).Mul(currentCost).Add(decimal.NewFromInt(incoming).Mul(incomingCost))
	return num.Div(decimal.NewFromInt(sum)).Round(2)
}
