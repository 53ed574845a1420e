// Package transfer implements the ledger and transfer engine: deposit
// confirmation, withdrawal initiation and completion, and peer
// crypto-to-fiat transfers. Every balance mutation goes through the
// ledger store's atomic delta primitive; multi-step flows use an
// in-process saga with explicit compensations.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cryptopay/internal/models"
	"cryptopay/internal/repositories"
	"cryptopay/internal/services/gateway"
	"cryptopay/internal/services/oracle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the transfer engine surface consumed by the API layer
// and the withdrawal worker.
type Service interface {
	Deposit(ctx context.Context, req DepositRequest) (*DepositSession, error)
	ConfirmDeposit(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string, notice WebhookNotice) (*ConfirmResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error)
	WithdrawalStatus(ctx context.Context, accountID, reference string) (string, error)
	CompleteWithdrawal(ctx context.Context, reference string) error
	SendCrypto(ctx context.Context, req SendCryptoRequest) (*SendCryptoResult, error)
}

type service struct {
	ledger  repositories.LedgerStore
	prices  oracle.Service
	gateway gateway.Adapter
	config  Config
	metrics MetricsCollector
}

// NewService wires the transfer engine.
func NewService(ledger repositories.LedgerStore, prices oracle.Service, gw gateway.Adapter, cfg Config, metrics MetricsCollector) Service {
	if ledger == nil {
		panic("ledger store is required")
	}
	if prices == nil {
		panic("price oracle is required")
	}
	if gw == nil {
		panic("gateway adapter is required")
	}

	if cfg.DepositFeeRate.IsZero() {
		cfg.DepositFeeRate = decimal.NewFromFloat(0.02)
	}
	if cfg.WithdrawalFeeRate.IsZero() {
		cfg.WithdrawalFeeRate = decimal.NewFromFloat(0.01)
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	if cfg.ExternalTimeout == 0 {
		cfg.ExternalTimeout = 10 * time.Second
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &service{
		ledger:  ledger,
		prices:  prices,
		gateway: gw,
		config:  cfg,
		metrics: metrics,
	}
}

// Deposit creates a gateway payment session and a pending transaction.
// Nothing is credited here; the commit happens at confirmation.
func (s *service) Deposit(ctx context.Context, req DepositRequest) (*DepositSession, error) {
	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !models.IsFiatCurrency(req.Currency) {
		return nil, fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, req.Currency)
	}
	if req.TargetCrypto != "" && !models.IsCryptoCurrency(req.TargetCrypto) {
		return nil, fmt.Errorf("%w: unknown crypto asset %q", ErrInvalidInput, req.TargetCrypto)
	}
	if _, err := s.ledger.GetAccount(ctx, req.AccountID); err != nil {
		return nil, s.mapLedgerErr(err)
	}

	fee := req.Amount.Mul(s.config.DepositFeeRate)
	net := req.Amount.Sub(fee)
	reference := newReference("TXN")

	callCtx, cancel := context.WithTimeout(ctx, s.config.ExternalTimeout)
	defer cancel()
	session, err := s.gateway.CreatePayment(callCtx, gateway.PaymentRequest{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: fmt.Sprintf("Add %s %s to wallet", req.Amount, req.Currency),
		Reference:   reference,
		Metadata: map[string]string{
			"account_id":    req.AccountID,
			"target_crypto": req.TargetCrypto,
		},
	})
	if err != nil {
		s.metrics.RecordError("deposit", "gateway")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	// Best effort: record the crypto the net amount would buy today.
	var expectedCrypto decimal.Decimal
	if req.TargetCrypto != "" {
		if price, perr := s.getPrice(ctx, req.TargetCrypto); perr == nil {
			if rate, ok := price.PriceIn(req.Currency); ok && rate.Sign() > 0 {
				expectedCrypto = net.Div(rate).Round(8)
			}
		}
	}

	tx := &models.Transaction{
		AccountID:        req.AccountID,
		Type:             models.TransactionTypeDeposit,
		Amount:           req.Amount,
		Currency:         req.Currency,
		CryptoAmount:     expectedCrypto,
		CryptoCurrency:   req.TargetCrypto,
		Status:           models.TransactionStatusPending,
		Fee:              fee,
		PaymentMethod:    req.PaymentMethod,
		Reference:        reference,
		GatewayPaymentID: session.PaymentID,
		Description:      fmt.Sprintf("Deposit of %s %s", req.Amount, req.Currency),
	}
	if err := s.ledger.InsertTransaction(ctx, tx); err != nil {
		s.metrics.RecordError("deposit", "insert")
		return nil, s.mapLedgerErr(err)
	}

	return &DepositSession{
		Reference:      reference,
		PaymentID:      session.PaymentID,
		PaymentURL:     session.PaymentURL,
		Amount:         req.Amount,
		Fee:            fee,
		NetAmount:      net,
		Currency:       req.Currency,
		TargetCrypto:   req.TargetCrypto,
		ExpectedCrypto: expectedCrypto,
	}, nil
}

// ConfirmDeposit verifies the payment with the gateway and commits the
// credit. Confirming an already-completed deposit is a no-op success.
func (s *service) ConfirmDeposit(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("deposit_confirm", time.Since(start)) }()

	if req.Reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}

	tx, err := s.ledger.FindTransactionByReference(ctx, req.Reference)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}
	if req.AccountID != "" && tx.AccountID != req.AccountID {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, req.Reference)
	}
	if tx.Status == models.TransactionStatusCompleted {
		return s.duplicateResult(ctx, tx)
	}
	if tx.Status == models.TransactionStatusFailed {
		return nil, fmt.Errorf("%w: transaction already failed", ErrInvalidInput)
	}

	paymentID := req.PaymentID
	if paymentID == "" {
		paymentID = tx.GatewayPaymentID
	}
	callCtx, cancel := context.WithTimeout(ctx, s.config.ExternalTimeout)
	defer cancel()
	ok, err := s.gateway.VerifyPayment(callCtx, paymentID)
	if err != nil {
		s.metrics.RecordError("deposit_confirm", "gateway")
		return nil, fmt.Errorf("%w: payment verification failed: %v", ErrGateway, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: payment not confirmed by gateway", ErrGateway)
	}

	return s.commitDeposit(ctx, tx)
}

// HandleWebhook processes a gateway deposit notification. Signature
// verification fails closed; duplicate deliveries commit exactly once.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string, notice WebhookNotice) (*ConfirmResult, error) {
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		s.metrics.RecordError("webhook", "signature")
		return nil, ErrInvalidSignature
	}
	if notice.Reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrInvalidInput)
	}

	tx, err := s.ledger.FindTransactionByReference(ctx, notice.Reference)
	switch {
	case err == nil:
		if tx.Status == models.TransactionStatusCompleted {
			return s.duplicateResult(ctx, tx)
		}
	case errors.Is(err, repositories.ErrTransactionNotFound):
		// Simulation path: the gateway is the first to tell us about
		// this deposit. Insert the record, racing duplicates resolved
		// by the store's uniqueness constraint.
		if notice.Amount.Sign() <= 0 || !models.IsFiatCurrency(notice.Currency) {
			return nil, fmt.Errorf("%w: bad webhook amount or currency", ErrInvalidInput)
		}
		tx = &models.Transaction{
			AccountID:        notice.AccountID,
			Type:             models.TransactionTypeDeposit,
			Amount:           notice.Amount,
			Currency:         notice.Currency,
			Status:           models.TransactionStatusPending,
			PaymentMethod:    "gateway_webhook",
			Reference:        notice.Reference,
			GatewayPaymentID: notice.PaymentID,
		}
		if ierr := s.ledger.InsertTransaction(ctx, tx); ierr != nil {
			if errors.Is(ierr, repositories.ErrDuplicateReference) {
				// Lost the insert race: the winner owns the commit.
				existing, ferr := s.ledger.FindTransactionByReference(ctx, notice.Reference)
				if ferr != nil {
					return nil, s.mapLedgerErr(ferr)
				}
				return s.duplicateResult(ctx, existing)
			}
			return nil, s.mapLedgerErr(ierr)
		}
	default:
		return nil, s.mapLedgerErr(err)
	}

	return s.commitDeposit(ctx, tx)
}

// commitDeposit credits the net amount and completes the transaction.
// The credit and the status transition together are the commit; if the
// transition keeps failing after the money posted, that is a
// recoverable inconsistency and must surface, not roll back.
func (s *service) commitDeposit(ctx context.Context, tx *models.Transaction) (*ConfirmResult, error) {
	net := tx.Amount.Sub(tx.Fee)
	newBalance, err := s.ledger.ApplyBalanceDelta(ctx, tx.AccountID, tx.Currency, net)
	if err != nil {
		s.metrics.RecordError("deposit_confirm", "credit")
		return nil, s.mapLedgerErr(err)
	}

	var updateErr error
	for attempt := 0; attempt < 3; attempt++ {
		if _, updateErr = s.ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusCompleted); updateErr == nil {
			break
		}
	}
	if updateErr != nil {
		incErr := &InconsistencyError{
			Reference: tx.Reference,
			AccountID: tx.AccountID,
			Amount:    net,
			Currency:  tx.Currency,
			Cause:     fmt.Errorf("balance credited but status update failed: %w", updateErr),
		}
		s.recordInconsistency(ctx, incErr)
		return nil, incErr
	}

	amt, _ := tx.Amount.Float64()
	s.metrics.RecordTransaction(models.TransactionTypeDeposit, amt)
	return &ConfirmResult{
		Reference:  tx.Reference,
		Amount:     tx.Amount,
		Fee:        tx.Fee,
		Currency:   tx.Currency,
		NewBalance: newBalance,
		Status:     models.TransactionStatusCompleted,
	}, nil
}

// duplicateResult reports an already-committed deposit without
// touching any state: exactly-once semantics for retried deliveries.
func (s *service) duplicateResult(ctx context.Context, tx *models.Transaction) (*ConfirmResult, error) {
	balance, err := s.ledger.GetBalance(ctx, tx.AccountID, tx.Currency)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}
	return &ConfirmResult{
		Reference:  tx.Reference,
		Amount:     tx.Amount,
		Fee:        tx.Fee,
		Currency:   tx.Currency,
		NewBalance: balance,
		Status:     tx.Status,
		Duplicate:  true,
	}, nil
}

// Withdraw reserves the funds at initiation: the debit happens before
// the gateway call, so concurrent withdrawals cannot double-spend the
// same balance. A failed gateway call refunds the full amount.
func (s *service) Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("withdraw", time.Since(start)) }()

	if req.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !models.IsFiatCurrency(req.Currency) {
		return nil, fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, req.Currency)
	}
	if req.Method == "" || req.AccountDetails == "" {
		return nil, fmt.Errorf("%w: withdrawal method and account details are required", ErrInvalidInput)
	}

	balance, err := s.ledger.GetBalance(ctx, req.AccountID, req.Currency)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}
	if req.Amount.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: available %s %s", ErrInsufficientFunds, balance, req.Currency)
	}

	fee := req.Amount.Mul(s.config.WithdrawalFeeRate)
	net := req.Amount.Sub(fee)
	reference := uuid.NewString()

	tx := &models.Transaction{
		AccountID:       req.AccountID,
		Type:            models.TransactionTypeWithdrawal,
		Amount:          req.Amount.Neg(), // debit stored as negative delta
		Currency:        req.Currency,
		Status:          models.TransactionStatusPending,
		Fee:             fee,
		PaymentMethod:   req.Method,
		Reference:       reference,
		CounterpartyRef: req.AccountDetails,
		Description:     fmt.Sprintf("Withdrawal of %s %s via %s", req.Amount, req.Currency, req.Method),
	}
	if err := s.ledger.InsertTransaction(ctx, tx); err != nil {
		return nil, s.mapLedgerErr(err)
	}

	var newBalance decimal.Decimal
	var receipt *gateway.WithdrawalReceipt

	debit := sagaStep{
		name: "reserve-funds",
		run: func(c context.Context) error {
			var derr error
			newBalance, derr = s.ledger.ApplyBalanceDelta(c, req.AccountID, req.Currency, req.Amount.Neg())
			return derr
		},
		compensate: func(c context.Context) error {
			var rerr error
			newBalance, rerr = s.ledger.ApplyBalanceDelta(c, req.AccountID, req.Currency, req.Amount)
			return rerr
		},
	}
	payout := sagaStep{
		name: "gateway-payout",
		run: func(c context.Context) error {
			callCtx, cancel := context.WithTimeout(c, s.config.ExternalTimeout)
			defer cancel()
			var gerr error
			receipt, gerr = s.gateway.ProcessWithdrawal(callCtx, gateway.WithdrawalRequest{
				Amount:         net,
				Currency:       req.Currency,
				Method:         req.Method,
				AccountDetails: req.AccountDetails,
				Reference:      reference,
			})
			return gerr
		},
	}

	stepErr, compErr := newSaga(debit, payout).execute(ctx)
	if stepErr != nil {
		if _, uerr := s.ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusFailed); uerr != nil {
			log.Printf("transfer: failed to mark withdrawal %s as failed: %v", reference, uerr)
		}
		if compErr != nil {
			incErr := &InconsistencyError{
				Reference: reference,
				AccountID: req.AccountID,
				Amount:    req.Amount,
				Currency:  req.Currency,
				Cause:     fmt.Errorf("withdrawal failed (%v) and refund failed: %w", stepErr, compErr),
			}
			s.recordInconsistency(ctx, incErr)
			return nil, incErr
		}
		s.metrics.RecordError("withdraw", "gateway")
		return nil, fmt.Errorf("%w: %v", ErrGateway, stepErr)
	}

	amt, _ := req.Amount.Float64()
	s.metrics.RecordTransaction(models.TransactionTypeWithdrawal, amt)
	return &WithdrawResult{
		Reference:        reference,
		Amount:           req.Amount,
		Fee:              fee,
		NetAmount:        net,
		Currency:         req.Currency,
		Status:           models.TransactionStatusPending,
		NewBalance:       newBalance,
		WithdrawalID:     receipt.WithdrawalID,
		EstimatedArrival: receipt.EstimatedArrival,
	}, nil
}

// WithdrawalStatus exposes the current transaction status for polling.
func (s *service) WithdrawalStatus(ctx context.Context, accountID, reference string) (string, error) {
	tx, err := s.ledger.FindTransactionByReference(ctx, reference)
	if err != nil {
		return "", s.mapLedgerErr(err)
	}
	if tx.AccountID != accountID {
		return "", fmt.Errorf("%w: transaction %s", ErrNotFound, reference)
	}
	return tx.Status, nil
}

// CompleteWithdrawal applies the gateway's asynchronous completion
// signal. The funds were removed at initiation, so this is a pure
// status transition; repeated signals are harmless.
func (s *service) CompleteWithdrawal(ctx context.Context, reference string) error {
	tx, err := s.ledger.FindTransactionByReference(ctx, reference)
	if err != nil {
		return s.mapLedgerErr(err)
	}
	if tx.Status == models.TransactionStatusCompleted {
		return nil
	}
	if _, err := s.ledger.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusCompleted); err != nil {
		return s.mapLedgerErr(err)
	}
	return nil
}

// SendCrypto moves notional crypto value between accounts: the sender
// is debited fiat at the current price, the recipient is credited in
// their chosen currency, and two records share one reference. Debit,
// credit, record — unwound in reverse on any failure.
func (s *service) SendCrypto(ctx context.Context, req SendCryptoRequest) (*SendCryptoResult, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("send_crypto", time.Since(start)) }()

	if req.CryptoAmount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if !models.IsCryptoCurrency(req.CryptoSymbol) {
		return nil, fmt.Errorf("%w: unknown crypto asset %q", ErrInvalidInput, req.CryptoSymbol)
	}
	if !models.IsFiatCurrency(req.RecipientCurrency) {
		return nil, fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, req.RecipientCurrency)
	}
	if req.SenderID == req.RecipientID {
		return nil, fmt.Errorf("%w: cannot transfer to self", ErrInvalidInput)
	}

	sender, err := s.ledger.GetAccount(ctx, req.SenderID)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}
	recipient, err := s.ledger.GetAccount(ctx, req.RecipientID)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}

	price, err := s.getPrice(ctx, req.CryptoSymbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPriceUnavailable, req.CryptoSymbol)
	}
	senderRate, ok := price.PriceIn(s.config.DefaultCurrency)
	if !ok || senderRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: no %s quote for %s", ErrPriceUnavailable, s.config.DefaultCurrency, req.CryptoSymbol)
	}
	recipientRate, ok := price.PriceIn(req.RecipientCurrency)
	if !ok || recipientRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: no %s quote for %s", ErrPriceUnavailable, req.RecipientCurrency, req.CryptoSymbol)
	}

	requiredFiat := req.CryptoAmount.Mul(senderRate)
	recipientFiat := req.CryptoAmount.Mul(recipientRate)

	senderBalance, err := s.ledger.GetBalance(ctx, req.SenderID, s.config.DefaultCurrency)
	if err != nil {
		return nil, s.mapLedgerErr(err)
	}
	if requiredFiat.GreaterThan(senderBalance) {
		available := decimal.Zero
		if senderRate.Sign() > 0 {
			available = senderBalance.Div(senderRate).Round(8)
		}
		return nil, fmt.Errorf("%w: available %s %s (%s %s)",
			ErrInsufficientFunds, available, req.CryptoSymbol, senderBalance, s.config.DefaultCurrency)
	}

	reference := newReference("CRYPTO")
	var newSenderBalance, newRecipientBalance decimal.Decimal

	debitSender := sagaStep{
		name: "debit-sender",
		run: func(c context.Context) error {
			var derr error
			newSenderBalance, derr = s.ledger.ApplyBalanceDelta(c, req.SenderID, s.config.DefaultCurrency, requiredFiat.Neg())
			return derr
		},
		compensate: func(c context.Context) error {
			var rerr error
			newSenderBalance, rerr = s.ledger.ApplyBalanceDelta(c, req.SenderID, s.config.DefaultCurrency, requiredFiat)
			return rerr
		},
	}
	creditRecipient := sagaStep{
		name: "credit-recipient",
		run: func(c context.Context) error {
			var cerr error
			newRecipientBalance, cerr = s.ledger.ApplyBalanceDelta(c, req.RecipientID, req.RecipientCurrency, recipientFiat)
			return cerr
		},
		compensate: func(c context.Context) error {
			_, rerr := s.ledger.ApplyBalanceDelta(c, req.RecipientID, req.RecipientCurrency, recipientFiat.Neg())
			return rerr
		},
	}
	recordLegs := sagaStep{
		name: "record-transactions",
		run: func(c context.Context) error {
			description := req.Note
			if description == "" {
				description = fmt.Sprintf("Sent %s %s to %s", req.CryptoAmount, req.CryptoSymbol, recipient.FullName)
			}
			senderTx := &models.Transaction{
				AccountID:       req.SenderID,
				Type:            models.TransactionTypeCryptoSend,
				Amount:          req.CryptoAmount,
				Currency:        req.CryptoSymbol,
				CryptoAmount:    req.CryptoAmount,
				CryptoCurrency:  req.CryptoSymbol,
				Status:          models.TransactionStatusCompleted,
				PaymentMethod:   "crypto_wallet",
				Reference:       reference,
				CounterpartyRef: recipient.Email,
				Description:     description,
			}
			if ierr := s.ledger.InsertTransaction(c, senderTx); ierr != nil {
				return ierr
			}

			receivedNote := req.Note
			if receivedNote == "" {
				receivedNote = fmt.Sprintf("Received %s %s as %s from %s", req.CryptoAmount, req.CryptoSymbol, req.RecipientCurrency, sender.FullName)
			}
			recipientTx := &models.Transaction{
				AccountID:       req.RecipientID,
				Type:            models.TransactionTypeCryptoReceiveFiat,
				Amount:          recipientFiat,
				Currency:        req.RecipientCurrency,
				CryptoAmount:    req.CryptoAmount,
				CryptoCurrency:  req.CryptoSymbol,
				Status:          models.TransactionStatusCompleted,
				PaymentMethod:   "crypto_conversion",
				Reference:       reference,
				CounterpartyRef: sender.Email,
				Description:     receivedNote,
			}
			if ierr := s.ledger.InsertTransaction(c, recipientTx); ierr != nil {
				// Remove the first leg before handing control back to
				// the saga, so its compensations see no orphan record.
				if derr := s.ledger.DeleteTransactionsByReference(c, reference); derr != nil {
					return fmt.Errorf("insert failed (%v) and cleanup failed: %w", ierr, derr)
				}
				return ierr
			}
			return nil
		},
	}

	stepErr, compErr := newSaga(debitSender, creditRecipient, recordLegs).execute(ctx)
	if compErr != nil {
		incErr := &InconsistencyError{
			Reference: reference,
			AccountID: req.SenderID,
			Amount:    requiredFiat,
			Currency:  s.config.DefaultCurrency,
			Cause:     fmt.Errorf("transfer failed (%v) and compensation failed: %w", stepErr, compErr),
		}
		s.recordInconsistency(ctx, incErr)
		return nil, incErr
	}
	if stepErr != nil {
		s.metrics.RecordError("send_crypto", "step")
		return nil, fmt.Errorf("crypto transfer failed: %w", stepErr)
	}

	amt, _ := requiredFiat.Float64()
	s.metrics.RecordTransaction(models.TransactionTypeCryptoSend, amt)
	return &SendCryptoResult{
		Reference:        reference,
		SenderBalance:    newSenderBalance,
		RecipientBalance: newRecipientBalance,
		DebitedFiat:      requiredFiat,
		CreditedFiat:     recipientFiat,
		CreditedCurrency: req.RecipientCurrency,
		ExchangeSummary:  fmt.Sprintf("1 %s = %s %s", req.CryptoSymbol, recipientRate, req.RecipientCurrency),
	}, nil
}

func (s *service) getPrice(ctx context.Context, symbol string) (models.CryptoPrice, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.config.ExternalTimeout)
	defer cancel()
	return s.prices.GetPrice(callCtx, symbol)
}

func (s *service) recordInconsistency(ctx context.Context, incErr *InconsistencyError) {
	entry := &models.ReconciliationEntry{
		Reference: incErr.Reference,
		AccountID: incErr.AccountID,
		Amount:    incErr.Amount,
		Currency:  incErr.Currency,
		Detail:    incErr.Error(),
	}
	if err := s.ledger.RecordInconsistency(ctx, entry); err != nil {
		// Last line of defense: the log is the audit trail now.
		log.Printf("transfer: RECONCILIATION RECORD FAILED for %s: %v (original: %v)",
			incErr.Reference, err, incErr)
	} else {
		log.Printf("transfer: inconsistency recorded for reconciliation: %v", incErr)
	}
	s.metrics.RecordError("compensation", "inconsistent")
}

func (s *service) mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrDuplicateReference):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

func newReference(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().Unix(), id[:8])
}
