package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/dyike/stocklyzer/internal/dashboard"
)

// InteractiveSession is the menu-driven dashboard. Each view keeps its own
// inputs and last result for the whole session.
type InteractiveSession struct {
	app        *app
	out        io.Writer
	capm       *dashboard.CAPMView
	analysis   *dashboard.AnalysisView
	prediction *dashboard.PredictionView
}

// NewInteractiveSession creates a new interactive session
func NewInteractiveSession(a *app, out io.Writer) *InteractiveSession {
	gw := liveGateway{app: a}
	return &InteractiveSession{
		app:        a,
		out:        out,
		capm:       dashboard.NewCAPMView(gw),
		analysis:   dashboard.NewAnalysisView(gw),
		prediction: dashboard.NewPredictionView(gw),
	}
}

func runInteractiveMode(cmd *cobra.Command, a *app) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := a.watch(ctx); err != nil {
		a.log().Warn().Err(err).Msg("config hot reload disabled")
	}

	return NewInteractiveSession(a, cmd.OutOrStdout()).Start(ctx)
}

// Start begins the interactive session
func (s *InteractiveSession) Start(ctx context.Context) error {
	DisplayWelcomeBanner(s.out)
	s.checkBackend(ctx)

	for {
		choice, err := PromptForMenu()
		if err != nil {
			return quitOnInterrupt(err)
		}

		switch choice {
		case MenuCAPM:
			err = s.runCAPM(ctx)
		case MenuAnalysis:
			err = s.runAnalysis(ctx)
		case MenuPrediction:
			err = s.runPrediction(ctx)
		case MenuHealth:
			s.checkBackend(ctx)
			continue
		case MenuExit:
			fmt.Fprintln(s.out, "👋 Thank you for using Stocklyzer!")
			return nil
		}
		if err != nil {
			return quitOnInterrupt(err)
		}

		again, err := PromptForRestartOrExit()
		if err != nil || !again {
			fmt.Fprintln(s.out, "👋 Thank you for using Stocklyzer!")
			return quitOnInterrupt(err)
		}
	}
}

func (s *InteractiveSession) checkBackend(ctx context.Context) {
	client := s.app.client()
	if _, err := client.Health(ctx); err != nil {
		DisplayError(s.out, fmt.Errorf("%s at %s", err.Error(), client.BaseURL()))
		return
	}
	DisplaySuccess(s.out, fmt.Sprintf("Connected to %s", client.BaseURL()))
}

func (s *InteractiveSession) runCAPM(ctx context.Context) error {
	for {
		action, err := PromptForBasketAction(s.capm.Stocks(), s.capm.Years())
		if err != nil {
			return err
		}

		switch action {
		case BasketAdd:
			sym, err := PromptForSymbol("Enter stock symbol:", "")
			if err != nil {
				return err
			}
			if err := s.capm.AddStock(sym); err != nil {
				DisplayError(s.out, err)
			}
		case BasketPopular:
			picked, err := PromptForPopular(s.capm.Stocks())
			if err != nil {
				return err
			}
			for _, sym := range picked {
				if err := s.capm.AddStock(sym); err != nil {
					DisplayError(s.out, err)
					break
				}
			}
		case BasketRemove:
			stocks := s.capm.Stocks()
			if len(stocks) <= 1 {
				DisplayInfo(s.out, "At least one stock must remain")
				continue
			}
			sym, err := PromptForRemoval(stocks)
			if err != nil {
				return err
			}
			s.capm.RemoveStock(sym)
		case BasketYears:
			years, err := PromptForYears(s.capm.Years())
			if err != nil {
				return err
			}
			if err := s.capm.SetYears(years); err != nil {
				DisplayError(s.out, err)
			}
		case BasketCalculate:
			DisplayInfo(s.out, "Calculating...")
			res, err := s.capm.Submit(ctx)
			if s.report(err) {
				renderCAPM(s.out, res, s.capm.Years())
			}
			return nil
		case BasketBack:
			return nil
		}
	}
}

func (s *InteractiveSession) runAnalysis(ctx context.Context) error {
	sym, err := PromptForSymbol("Enter stock symbol:", s.analysis.Symbol())
	if err != nil {
		return err
	}
	s.analysis.SetSymbol(sym)

	period, err := PromptForPeriod(s.analysis.Period())
	if err != nil {
		return err
	}
	if err := s.analysis.SetPeriod(period); err != nil {
		DisplayError(s.out, err)
		return nil
	}

	DisplayInfo(s.out, "Analyzing...")
	res, err := s.analysis.Submit(ctx)
	if s.report(err) {
		renderAnalysis(s.out, res, s.analysis.Period())
	}
	return nil
}

func (s *InteractiveSession) runPrediction(ctx context.Context) error {
	sym, err := PromptForSymbol("Enter stock symbol:", s.prediction.Symbol())
	if err != nil {
		return err
	}
	s.prediction.SetSymbol(sym)

	days, err := PromptForDays(s.prediction.Days())
	if err != nil {
		return err
	}
	if err := s.prediction.SetDays(days); err != nil {
		DisplayError(s.out, err)
		return nil
	}

	DisplayInfo(s.out, "Predicting...")
	res, err := s.prediction.Submit(ctx)
	if s.report(err) {
		renderPrediction(s.out, sym, res, s.prediction.Days())
	}
	return nil
}

// report prints a failed submission and reports whether there is a result to render.
func (s *InteractiveSession) report(err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, dashboard.ErrStale):
		return false
	default:
		DisplayError(s.out, err)
		return false
	}
}

func quitOnInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}
