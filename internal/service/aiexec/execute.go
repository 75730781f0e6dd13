package aiexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/observability"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

// errInsufficientAfterCall aborts the charge transaction when the balance was
// spent by a concurrent call between the pre-check and the deduction.
var errInsufficientAfterCall = errors.New("balance became insufficient after provider call")

// Execute runs one metered call:
//  1. pre-check the balance against the action estimate;
//  2. invoke the provider exactly once;
//  3. price the reported usage;
//  4. deduct and append the ledger row in one transaction;
//  5. build the transparency and low-balance messages.
//
// A failed call is never charged. Nothing is retried.
func (o *Orchestrator) Execute(ctx context.Context, in ExecuteInput) Result {
	msgs := o.catalog(in.Options.Locale)

	if err := in.Validate(); err != nil {
		o.observe(in.ActionType, KindValidation)
		return Result{
			TransparencyMessage: msgs.invalidRequest,
			Error:               err.Error(),
			ErrorKind:           KindValidation,
		}
	}

	log := o.log.With(
		slog.String("user_id", in.UserID.String()),
		slog.String("action", in.ActionType.String()),
	)

	// Step 1: pre-check.
	estimate := o.estimates.For(in.ActionType)
	balance, err := o.balances.GetBalance(ctx, in.UserID)
	if err != nil {
		log.ErrorContext(ctx, "get balance failed", slog.String("error", err.Error()))
		o.observe(in.ActionType, KindPersistenceFailure)
		return Result{
			TransparencyMessage: msgs.persistenceFailure,
			Error:               msgs.persistenceFailure,
			ErrorKind:           KindPersistenceFailure,
		}
	}
	if balance < estimate {
		log.InfoContext(ctx, "insufficient balance before call",
			slog.Int64("balance", balance),
			slog.Int64("estimate", estimate),
		)
		o.observe(in.ActionType, KindInsufficientBalance)
		text := msgs.insufficientMsg(estimate, balance)
		return Result{
			TokensRemaining:     balance,
			TransparencyMessage: text,
			Error:               domain.ErrInsufficientBalance.Error(),
			ErrorKind:           KindInsufficientBalance,
		}
	}

	// Step 2: provider call.
	completion, err := o.callProvider(ctx, in)
	if err != nil {
		log.WarnContext(ctx, "provider call failed", slog.String("error", err.Error()))
		o.observe(in.ActionType, KindProviderFailure)
		return Result{
			TokensRemaining:     balance,
			TransparencyMessage: msgs.notChargedMsg(balance),
			Error:               fmt.Sprintf("%s: %s", msgs.providerFailure, err),
			ErrorKind:           KindProviderFailure,
		}
	}

	// Step 3: price.
	units := completion.Units()
	cost := o.cost.Calculate(units)

	// Steps 4+5: charge and record together.
	var deduct domain.DeductResult
	err = o.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		deduct, txErr = o.balances.TryDeduct(txCtx, in.UserID, cost)
		if txErr != nil {
			return fmt.Errorf("try deduct: %w", txErr)
		}
		if !deduct.Success {
			return errInsufficientAfterCall
		}

		_, txErr = o.ledger.Append(txCtx, domain.UsageLedgerEntry{
			UserID:        in.UserID,
			ActionType:    in.ActionType,
			ProviderUnits: units,
			Deducted:      cost,
			BalanceBefore: deduct.BalanceBefore,
			BalanceAfter:  deduct.BalanceAfter,
			Metadata:      o.ledgerMetadata(in, completion, estimate),
		})
		if txErr != nil {
			return fmt.Errorf("append ledger: %w", txErr)
		}
		return nil
	})

	switch {
	case errors.Is(err, errInsufficientAfterCall):
		log.WarnContext(ctx, "provider cost sunk: balance insufficient after call",
			slog.String("event", "billing.reconciliation"),
			slog.Int64("provider_units", units),
			slog.Int64("cost", cost),
			slog.Int64("balance", deduct.BalanceAfter),
		)
		o.recordReconciliation(ctx, log, in, units, cost, domain.ReconcileInsufficientAfterCall,
			fmt.Sprintf("balance %d < cost %d", deduct.BalanceAfter, cost))
		o.observe(in.ActionType, KindInsufficientBalance)
		return Result{
			TokensRemaining:     deduct.BalanceAfter,
			TransparencyMessage: msgs.insufficientMsg(cost, deduct.BalanceAfter),
			Error:               domain.ErrInsufficientBalance.Error(),
			ErrorKind:           KindInsufficientBalance,
		}

	case err != nil:
		log.ErrorContext(ctx, "charge transaction failed",
			slog.String("event", "billing.reconciliation"),
			slog.Int64("provider_units", units),
			slog.Int64("cost", cost),
			slog.String("error", err.Error()),
		)
		o.recordReconciliation(ctx, log, in, units, cost, domain.ReconcilePersistenceFailure, err.Error())
		o.observe(in.ActionType, KindPersistenceFailure)
		return Result{
			TokensRemaining:     balance,
			TransparencyMessage: msgs.notChargedMsg(balance),
			Error:               msgs.persistenceFailure,
			ErrorKind:           KindPersistenceFailure,
		}
	}

	// Step 6: report.
	observability.AIExecutions.WithLabelValues(in.ActionType.String(), "success").Inc()
	observability.AITokensDeducted.WithLabelValues(in.ActionType.String()).Add(float64(cost))
	observability.AIProviderUnits.WithLabelValues(in.ActionType.String()).Add(float64(units))

	log.InfoContext(ctx, "ai execution charged",
		slog.Int64("provider_units", units),
		slog.Int64("deducted", cost),
		slog.Int64("balance_after", deduct.BalanceAfter),
	)

	res := Result{
		Success:             true,
		Response:            completion.Text,
		TokensDeducted:      cost,
		TokensRemaining:     deduct.BalanceAfter,
		TransparencyMessage: msgs.transparencyMsg(cost, deduct.BalanceAfter),
	}
	if deduct.BalanceAfter < o.cfg.LowBalanceThreshold {
		res.WarningMessage = msgs.lowBalanceMsg(deduct.BalanceAfter)
	}
	return res
}

func (o *Orchestrator) callProvider(ctx context.Context, in ExecuteInput) (*provider.Completion, error) {
	callCtx := ctx
	if o.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.ProviderTimeout)
		defer cancel()
	}

	started := time.Now()
	completion, err := o.llm.Complete(callCtx, provider.Request{
		System:           in.System,
		Messages:         in.Messages,
		Model:            in.Options.Model,
		MaxOutputTokens:  in.Options.MaxOutputTokens,
		Temperature:      in.Options.Temperature,
		StructuredOutput: in.Options.StructuredOutput,
	})
	observability.AIProviderLatency.WithLabelValues(in.ActionType.String()).Observe(time.Since(started).Seconds())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	if completion == nil || completion.Text == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, provider.ErrEmptyResponse)
	}
	return completion, nil
}

// recordReconciliation stores a sunk provider cost. It runs on a
// non-cancelled context and never changes the user-visible outcome.
func (o *Orchestrator) recordReconciliation(
	ctx context.Context,
	log *slog.Logger,
	in ExecuteInput,
	units, cost int64,
	reason domain.ReconciliationReason,
	detail string,
) {
	observability.BillingReconciliations.WithLabelValues(string(reason)).Inc()

	_, err := o.reconcile.Record(context.WithoutCancel(ctx), domain.ReconciliationRecord{
		UserID:        in.UserID,
		ActionType:    in.ActionType,
		ProviderUnits: units,
		Amount:        cost,
		Reason:        reason,
		Detail:        detail,
	})
	if err != nil {
		log.ErrorContext(ctx, "reconciliation record failed",
			slog.String("event", "billing.reconciliation"),
			slog.String("reason", string(reason)),
			slog.String("error", err.Error()),
		)
	}
}

func (o *Orchestrator) ledgerMetadata(in ExecuteInput, c *provider.Completion, estimate int64) map[string]any {
	meta := make(map[string]any, len(in.Metadata)+4)
	for k, v := range in.Metadata {
		meta[k] = v
	}
	meta["model"] = c.Model
	meta["input_tokens"] = c.InputTokens
	meta["output_tokens"] = c.OutputTokens
	meta["estimate"] = estimate
	return meta
}

func (o *Orchestrator) catalog(locale string) catalog {
	if locale == "" {
		locale = o.cfg.Locale
	}
	return messagesFor(locale)
}

func (o *Orchestrator) observe(action domain.ActionType, kind ErrorKind) {
	label := action.String()
	if !action.IsValid() {
		label = "unknown"
	}
	observability.AIExecutions.WithLabelValues(label, string(kind)).Inc()
}
