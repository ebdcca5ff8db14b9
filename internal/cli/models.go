package cli

// MenuChoice is an entry of the interactive main menu
type MenuChoice string

const (
	MenuCAPM       MenuChoice = "capm"
	MenuAnalysis   MenuChoice = "analysis"
	MenuPrediction MenuChoice = "prediction"
	MenuHealth     MenuChoice = "health"
	MenuExit       MenuChoice = "exit"
)

// MenuChoices lists the menu in display order
var MenuChoices = []MenuChoice{MenuCAPM, MenuAnalysis, MenuPrediction, MenuHealth, MenuExit}

// GetDisplayName returns the menu label
func (m MenuChoice) GetDisplayName() string {
	switch m {
	case MenuCAPM:
		return "📊 CAPM Calculator"
	case MenuAnalysis:
		return "📈 Stock Analysis"
	case MenuPrediction:
		return "🔮 Stock Prediction"
	case MenuHealth:
		return "🩺 Check Backend"
	case MenuExit:
		return "👋 Exit"
	default:
		return string(m)
	}
}

// BasketAction is a step of the CAPM basket editor
type BasketAction string

const (
	BasketAdd       BasketAction = "Add stock"
	BasketPopular   BasketAction = "Add popular stocks"
	BasketRemove    BasketAction = "Remove stock"
	BasketYears     BasketAction = "Change time period"
	BasketCalculate BasketAction = "Calculate CAPM"
	BasketBack      BasketAction = "Back"
)
