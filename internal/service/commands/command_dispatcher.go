package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fueldepot/internal/calc"
	"github.com/mamadbah2/fueldepot/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the supported commands.
const HelpText = "Commands: /stock [tank], /balance <counterparty id>, /truck <truck id>, /convert <cm> [kg per barrel]."

// StockAdapter exposes the running stock computation.
type StockAdapter interface {
	StockLevels(ctx context.Context, tankID string) (models.StockReport, error)
}

// AccountsAdapter exposes the counterparty balance computation.
type AccountsAdapter interface {
	Balance(ctx context.Context, counterpartyID string) (models.AccountSummary, error)
}

// FleetAdapter exposes the truck status computation.
type FleetAdapter interface {
	Status(ctx context.Context, vehicleID string) (models.TruckStatus, error)
}

// Dispatcher answers parsed commands with freshly computed figures.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	stock            StockAdapter
	accounts         AccountsAdapter
	fleet            FleetAdapter
	defaultKgPerUnit float64
	logger           *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(stock StockAdapter, accounts AccountsAdapter, fleet FleetAdapter, defaultKgPerUnit float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stock:            stock,
		accounts:         accounts,
		fleet:            fleet,
		defaultKgPerUnit: defaultKgPerUnit,
		logger:           logger,
	}
}

// HandleCommand computes the figures requested by cmd and renders a reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStock:
		tank := ""
		if len(cmd.Args) > 0 {
			tank = cmd.Args[0]
		}
		report, err := s.stock.StockLevels(ctx, tank)
		if err != nil {
			return "", err
		}
		label := "all tanks"
		if tank != "" {
			label = "tank " + tank
		}
		return fmt.Sprintf("Current stock (%s): %.2f across %d movements.", label, report.CurrentStock, len(report.Records)), nil
	case models.CommandBalance:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		summary, err := s.accounts.Balance(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("Balance %s: %.2f (charged %.2f, paid %.2f).", summary.CounterpartyName, summary.Balance, summary.TransactionsTotal, summary.PaymentsTotal)
		if summary.LastModification != nil {
			message += fmt.Sprintf("\nLast change %s: %s.", summary.LastModification.At.Format("2006-01-02"), summary.LastModification.Description)
		}
		if n := len(summary.MalformedTransactions); n > 0 {
			message += fmt.Sprintf("\n%d transaction(s) without amount need checking.", n)
		}
		return message, nil
	case models.CommandTruck:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		status, err := s.fleet.Status(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Truck %s at %.0f km: %.2f L left, %.2f km range. Oil change: %s.",
			status.Truck.Plate, status.CurrentKm, status.RemainingFuel, status.RemainingRange, status.OilChange), nil
	case models.CommandConvert:
		return s.convert(cmd.Args)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) convert(args []string) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", ErrInvalidArguments
	}

	linear, err := strconv.ParseFloat(strings.Replace(args[0], ",", ".", 1), 64)
	if err != nil {
		return "", ErrInvalidArguments
	}

	factor := s.defaultKgPerUnit
	if len(args) == 2 {
		factor, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return "", ErrInvalidArguments
		}
	}

	result, err := calc.LinearToMassAndCount(linear, factor)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	rounded := result.Rounded()

	message := fmt.Sprintf("%.2f cm = %.2f barrels = %.2f kg (at %.0f kg/barrel).", linear, rounded.UnitCount, rounded.MassKg, factor)
	if !calc.IsStandardFactor(factor) {
		message += " Note: non-standard factor."
	}
	return message, nil
}
