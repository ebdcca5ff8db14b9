package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/stocklyzer/internal/models"
	"github.com/dyike/stocklyzer/internal/symbol"
)

// PromptForMenu prompts the user to pick a dashboard view
func PromptForMenu() (MenuChoice, error) {
	options := make([]string, len(MenuChoices))
	for i, m := range MenuChoices {
		options[i] = m.GetDisplayName()
	}

	var selected string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	for _, m := range MenuChoices {
		if m.GetDisplayName() == selected {
			return m, nil
		}
	}
	return MenuExit, nil
}

// PromptForSymbol prompts for one ticker, suggesting popular ones on tab
func PromptForSymbol(message, def string) (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: message,
		Default: def,
		Help:    "1-5 letters, e.g. AAPL. Press Tab for popular stocks.",
		Suggest: suggestSymbols,
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if !symbol.Validate(str) {
			return symbol.ErrInvalid
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return symbol.Format(ticker), nil
}

func suggestSymbols(toComplete string) []string {
	prefix := symbol.Format(toComplete)
	var out []string
	for _, c := range symbol.Popular {
		if strings.HasPrefix(c.Symbol, prefix) {
			out = append(out, c.Symbol)
		}
	}
	return out
}

// PromptForPopular lets the user tick popular stocks not yet in the basket
func PromptForPopular(basket []string) ([]string, error) {
	in := make(map[string]bool, len(basket))
	for _, s := range basket {
		in[s] = true
	}

	var options []string
	for _, c := range symbol.Popular {
		if !in[c.Symbol] {
			options = append(options, fmt.Sprintf("%s - %s", c.Symbol, c.Name))
		}
	}
	if len(options) == 0 {
		return nil, nil
	}

	var selected []string
	prompt := &survey.MultiSelect{
		Message: "Select popular stocks:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	out := make([]string, len(selected))
	for i, s := range selected {
		out[i] = strings.Split(s, " -")[0]
	}
	return out, nil
}

// PromptForBasketAction prompts for the next CAPM editor step
func PromptForBasketAction(basket []string, years models.Years) (BasketAction, error) {
	options := []string{
		string(BasketAdd),
		string(BasketPopular),
		string(BasketRemove),
		string(BasketYears),
		string(BasketCalculate),
		string(BasketBack),
	}

	var selected string
	prompt := &survey.Select{
		Message: fmt.Sprintf("Stocks [%s] over %s (%d/%d):", strings.Join(basket, ", "), years, len(basket), symbol.MaxBasketSize),
		Options: options,
		Default: string(BasketCalculate),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return BasketAction(selected), nil
}

// PromptForRemoval prompts for a basket entry to drop
func PromptForRemoval(basket []string) (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: "Remove which stock?",
		Options: basket,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

// PromptForYears prompts for the CAPM lookback window
func PromptForYears(current models.Years) (models.Years, error) {
	options := make([]string, len(models.YearOptions))
	for i, y := range models.YearOptions {
		options[i] = y.String()
	}

	var idx int
	prompt := &survey.Select{
		Message: "Select time period:",
		Options: options,
		Default: current.String(),
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return current, err
	}
	return models.YearOptions[idx], nil
}

// PromptForPeriod prompts for the technical analysis history window
func PromptForPeriod(current models.Period) (models.Period, error) {
	options := make([]string, len(models.PeriodOptions))
	for i, p := range models.PeriodOptions {
		options[i] = p.Label()
	}

	var idx int
	prompt := &survey.Select{
		Message: "Select time period:",
		Options: options,
		Default: current.Label(),
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return current, err
	}
	return models.PeriodOptions[idx], nil
}

// PromptForDays prompts for the forecast horizon
func PromptForDays(current models.Days) (models.Days, error) {
	options := make([]string, len(models.DayOptions))
	for i, d := range models.DayOptions {
		options[i] = d.String()
	}

	var idx int
	prompt := &survey.Select{
		Message: "Select prediction period:",
		Options: options,
		Default: current.String(),
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return current, err
	}
	return models.DayOptions[idx], nil
}

// PromptForRestartOrExit asks whether to go back to the main menu
func PromptForRestartOrExit() (bool, error) {
	again := true
	prompt := &survey.Confirm{
		Message: "Back to the main menu?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &again); err != nil {
		return false, err
	}
	return again, nil
}
