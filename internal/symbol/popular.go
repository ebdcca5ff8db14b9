package symbol

type Company struct {
	Symbol string
	Name   string
}

// Popular is the suggestion list offered by the interactive forms.
var Popular = []Company{
	{Symbol: "AAPL", Name: "Apple Inc."},
	{Symbol: "GOOGL", Name: "Alphabet Inc."},
	{Symbol: "MSFT", Name: "Microsoft Corporation"},
	{Symbol: "AMZN", Name: "Amazon.com Inc."},
	{Symbol: "TSLA", Name: "Tesla Inc."},
	{Symbol: "META", Name: "Meta Platforms Inc."},
	{Symbol: "NVDA", Name: "NVIDIA Corporation"},
	{Symbol: "NFLX", Name: "Netflix Inc."},
	{Symbol: "AMD", Name: "Advanced Micro Devices"},
	{Symbol: "INTC", Name: "Intel Corporation"},
}
