package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lmeadows/billfold/internal/domain"
	"github.com/lmeadows/billfold/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestTemplate(id, userID, clientID pgtype.UUID) repository.RecurringInvoice {
	return repository.RecurringInvoice{
		ID:           id,
		UserID:       userID,
		ClientID:     clientID,
		Frequency:    string(domain.FrequencyMonthly),
		Interval:     1,
		StartDate:    pgtype.Date{Time: date(2025, time.January, 15), Valid: true},
		NextRunAt:    pgtype.Timestamptz{Time: date(2025, time.March, 15), Valid: true},
		Status:       string(domain.TemplateActive),
		Currency:     "USD",
		TaxRate:      decimal.Zero,
		Discount:     decimal.Zero,
		DiscountType: "fixed",
	}
}

func Test_NextRunTime(t *testing.T) {
	tests := []struct {
		name      string
		current   time.Time
		freq      domain.Frequency
		interval  int32
		anchorDay int
		want      time.Time
	}{
		{
			name:    "daily",
			current: date(2025, time.June, 10),
			freq:    domain.FrequencyDaily, interval: 1,
			want: date(2025, time.June, 11),
		},
		{
			name:    "weekly interval 2",
			current: date(2025, time.June, 2),
			freq:    domain.FrequencyWeekly, interval: 2,
			want: date(2025, time.June, 16),
		},
		{
			name:    "monthly anchor 31 clamps to february",
			current: date(2025, time.January, 31),
			freq:    domain.FrequencyMonthly, interval: 1, anchorDay: 31,
			want: date(2025, time.February, 28),
		},
		{
			name:    "monthly recovers anchor after short month",
			current: date(2025, time.February, 28),
			freq:    domain.FrequencyMonthly, interval: 1, anchorDay: 31,
			want: date(2025, time.March, 31),
		},
		{
			name:    "monthly anchor 31 in leap february",
			current: date(2024, time.January, 31),
			freq:    domain.FrequencyMonthly, interval: 1, anchorDay: 31,
			want: date(2024, time.February, 29),
		},
		{
			name:    "monthly interval 3",
			current: date(2025, time.January, 15),
			freq:    domain.FrequencyMonthly, interval: 3, anchorDay: 15,
			want: date(2025, time.April, 15),
		},
		{
			name:    "yearly from leap day",
			current: date(2024, time.February, 29),
			freq:    domain.FrequencyYearly, interval: 1, anchorDay: 29,
			want: date(2025, time.February, 28),
		},
		{
			name:    "zero interval treated as one",
			current: date(2025, time.June, 10),
			freq:    domain.FrequencyDaily, interval: 0,
			want: date(2025, time.June, 11),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRunTime(tt.current, tt.freq, tt.interval, tt.anchorDay)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func Test_CreateTemplate_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	svc := NewRecurringService(newMockStore(ctrl), nil, testLogger())
	userID := createTestID().String()
	clientID := createTestID().String()
	item := domain.InvoiceItemInput{Description: "Retainer", Quantity: dec("1"), Rate: dec("500")}

	_, err := svc.CreateTemplate(ctx, CreateTemplateParams{
		UserID: userID, ClientID: clientID,
		Items:     []domain.InvoiceItemInput{item},
		Frequency: "fortnightly",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)

	_, err = svc.CreateTemplate(ctx, CreateTemplateParams{
		UserID: userID, ClientID: clientID,
		Items:     []domain.InvoiceItemInput{item},
		Frequency: domain.FrequencyMonthly,
		Interval:  -2,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = svc.CreateTemplate(ctx, CreateTemplateParams{
		UserID: userID, ClientID: clientID,
		Frequency: domain.FrequencyMonthly,
	})
	assert.ErrorIs(t, err, domain.ErrNoInvoiceItems)

	end := date(2025, time.January, 1)
	_, err = svc.CreateTemplate(ctx, CreateTemplateParams{
		UserID: userID, ClientID: clientID,
		Items:     []domain.InvoiceItemInput{item},
		Frequency: domain.FrequencyMonthly,
		StartDate: date(2025, time.June, 1),
		EndDate:   &end,
	})
	require.Error(t, err)
	assert.Contains(t, domain.GetValidationFields(err), "end_date")
}

func Test_CreateTemplate_ActivatesAtStartDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	clientID := createTestID()
	templateID := createTestID()
	start := date(2025, time.September, 1)

	store.MockQuerier.EXPECT().GetUserByID(ctx, userID).Return(createTestUser(userID, "basic"), nil)
	store.MockQuerier.EXPECT().
		GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}).
		Return(createTestClient(clientID, userID), nil)
	store.MockQuerier.EXPECT().CreateRecurringInvoice(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateRecurringInvoiceParams) (repository.RecurringInvoice, error) {
			assert.Equal(t, "active", arg.Status)
			assert.Equal(t, int32(1), arg.Interval)
			assert.True(t, arg.NextRunAt.Valid)
			assert.True(t, arg.NextRunAt.Time.Equal(start), "first run lands on the start date")
			return repository.RecurringInvoice{ID: templateID, UserID: userID, ClientID: clientID, Status: arg.Status}, nil
		})
	store.MockQuerier.EXPECT().CreateRecurringInvoiceItem(ctx, gomock.Any()).
		Return(repository.RecurringInvoiceItem{}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceItems(ctx, templateID).Return(nil, nil)

	svc := NewRecurringService(store, nil, testLogger())
	detail, err := svc.CreateTemplate(ctx, CreateTemplateParams{
		UserID:    userID.String(),
		ClientID:  clientID.String(),
		Items:     []domain.InvoiceItemInput{{Description: "Retainer", Quantity: dec("1"), Rate: dec("500")}},
		Frequency: domain.FrequencyMonthly,
		StartDate: start,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", detail.Template.Status)
}

func Test_RunNow_RejectsInactiveTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	templateID := createTestID()
	tmpl := createTestTemplate(templateID, userID, createTestID())
	tmpl.Status = string(domain.TemplatePaused)

	store.MockQuerier.EXPECT().
		GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: templateID, UserID: userID}).
		Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)

	svc := NewRecurringService(store, nil, testLogger())
	_, err := svc.RunNow(ctx, userID.String(), templateID.String())
	assert.ErrorIs(t, err, domain.ErrTemplateNotActive)
}

func Test_ResumeTemplate_CancelledIsTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	templateID := createTestID()
	tmpl := createTestTemplate(templateID, userID, createTestID())
	tmpl.Status = string(domain.TemplateCancelled)

	store.MockQuerier.EXPECT().
		GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: templateID, UserID: userID}).
		Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)

	svc := NewRecurringService(store, nil, testLogger())
	_, err := svc.ResumeTemplate(ctx, userID.String(), templateID.String())
	assert.ErrorIs(t, err, domain.ErrTemplateCancelled)
}

func Test_ProcessDue_GeneratesDraftAndAdvances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	clientID := createTestID()
	templateID := createTestID()
	invoiceID := createTestID()
	now := date(2025, time.March, 15).Add(12 * time.Hour)

	// Pro plan, so generation never counts active invoices.
	user := createTestUser(userID, "pro")
	tmpl := createTestTemplate(templateID, userID, clientID)
	items := []repository.RecurringInvoiceItem{
		{RecurringInvoiceID: templateID, Description: "Retainer", Quantity: dec("1"), Rate: dec("500"), Position: 0},
	}

	store.MockQuerier.EXPECT().
		ListDueRecurringInvoices(ctx, repository.ListDueRecurringInvoicesParams{AsOf: tsOf(now), Limit: 500}).
		Return([]repository.RecurringInvoice{tmpl}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetUserByID(ctx, userID).Return(user, nil)
	store.MockQuerier.EXPECT().
		GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}).
		Return(createTestClient(clientID, userID), nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceItems(ctx, templateID).Return(items, nil)
	store.MockQuerier.EXPECT().NextInvoiceNumber(ctx, userID).
		Return(repository.NextInvoiceNumberRow{InvoicePrefix: "INV", Sequence: 12}, nil)
	store.MockQuerier.EXPECT().CreateInvoice(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateInvoiceParams) (repository.Invoice, error) {
			assert.Equal(t, "draft", arg.Status)
			assert.Equal(t, "INV-00012", arg.InvoiceNumber)
			assert.Equal(t, "500.00", arg.TotalAmount.StringFixed(2))
			require.True(t, arg.InvoiceDate.Valid)
			assert.True(t, arg.InvoiceDate.Time.Equal(date(2025, time.March, 15)), "invoice date anchors at the scheduled run, not the sweep time")
			require.True(t, arg.DueDate.Valid)
			assert.True(t, arg.DueDate.Time.Equal(date(2025, time.April, 14)), "due date follows the owner's 30 day terms from the scheduled date")
			return repository.Invoice{ID: invoiceID, UserID: userID, ClientID: clientID, InvoiceNumber: arg.InvoiceNumber, Status: arg.Status}, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceItem(ctx, gomock.Any()).Return(repository.InvoiceItem{}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateInvoiceHistoryParams) (repository.InvoiceHistory, error) {
			assert.Equal(t, "created", arg.Action)
			assert.False(t, arg.ActorID.Valid)
			return repository.InvoiceHistory{}, nil
		})
	store.MockQuerier.EXPECT().AdvanceRecurringSchedule(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.AdvanceRecurringScheduleParams) (repository.RecurringInvoice, error) {
			assert.Equal(t, "active", arg.Status)
			assert.True(t, arg.LastRunAt.Time.Equal(now))
			require.True(t, arg.NextRunAt.Valid)
			assert.True(t, arg.NextRunAt.Time.Equal(date(2025, time.April, 15)), "next run advances one month, got %s", arg.NextRunAt.Time)
			return tmpl, nil
		})
	store.MockQuerier.EXPECT().GetInvoiceItems(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoicePayments(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoiceHistory(ctx, invoiceID).Return(nil, nil)

	svc := NewRecurringService(store, nil, testLogger())
	result, err := svc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 0, result.Failed)
}

func Test_ProcessDue_FinalOccurrenceCancelsTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	clientID := createTestID()
	templateID := createTestID()
	invoiceID := createTestID()
	now := date(2025, time.March, 15)

	tmpl := createTestTemplate(templateID, userID, clientID)
	tmpl.MaxOccurrences = pgtype.Int4{Int32: 3, Valid: true}
	tmpl.OccurrencesCount = 2

	store.MockQuerier.EXPECT().
		ListDueRecurringInvoices(ctx, gomock.Any()).
		Return([]repository.RecurringInvoice{tmpl}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetUserByID(ctx, userID).Return(createTestUser(userID, "pro"), nil)
	store.MockQuerier.EXPECT().
		GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}).
		Return(createTestClient(clientID, userID), nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceItems(ctx, templateID).
		Return([]repository.RecurringInvoiceItem{{Description: "Retainer", Quantity: dec("1"), Rate: dec("500")}}, nil)
	store.MockQuerier.EXPECT().NextInvoiceNumber(ctx, userID).
		Return(repository.NextInvoiceNumberRow{InvoicePrefix: "INV", Sequence: 13}, nil)
	store.MockQuerier.EXPECT().CreateInvoice(ctx, gomock.Any()).
		Return(repository.Invoice{ID: invoiceID, UserID: userID}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceItem(ctx, gomock.Any()).Return(repository.InvoiceItem{}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)
	store.MockQuerier.EXPECT().AdvanceRecurringSchedule(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.AdvanceRecurringScheduleParams) (repository.RecurringInvoice, error) {
			// The third generation exhausts the template.
			assert.Equal(t, "cancelled", arg.Status)
			assert.False(t, arg.NextRunAt.Valid)
			return tmpl, nil
		})
	store.MockQuerier.EXPECT().GetInvoiceItems(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoicePayments(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoiceHistory(ctx, invoiceID).Return(nil, nil)

	svc := NewRecurringService(store, nil, testLogger())
	result, err := svc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
}

func Test_ProcessDue_ExhaustedTemplateCancelledWithoutGenerating(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	templateID := createTestID()
	now := date(2025, time.March, 15)

	tmpl := createTestTemplate(templateID, userID, createTestID())
	tmpl.MaxOccurrences = pgtype.Int4{Int32: 3, Valid: true}
	tmpl.OccurrencesCount = 3

	store.MockQuerier.EXPECT().ListDueRecurringInvoices(ctx, gomock.Any()).
		Return([]repository.RecurringInvoice{tmpl}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	// No invoice is created; the template is just cancelled.
	store.MockQuerier.EXPECT().
		UpdateRecurringStatus(ctx, repository.UpdateRecurringStatusParams{ID: templateID, Status: "cancelled"}).
		Return(tmpl, nil)

	svc := NewRecurringService(store, nil, testLogger())
	result, err := svc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Generated)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "maximum occurrences")
}

func Test_ProcessDue_ExpiredTemplateCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	templateID := createTestID()
	now := date(2025, time.June, 1)

	tmpl := createTestTemplate(templateID, userID, createTestID())
	tmpl.EndDate = pgtype.Date{Time: date(2025, time.May, 1), Valid: true}

	store.MockQuerier.EXPECT().ListDueRecurringInvoices(ctx, gomock.Any()).
		Return([]repository.RecurringInvoice{tmpl}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	store.MockQuerier.EXPECT().
		UpdateRecurringStatus(ctx, repository.UpdateRecurringStatusParams{ID: templateID, Status: "cancelled"}).
		Return(tmpl, nil)

	svc := NewRecurringService(store, nil, testLogger())
	result, err := svc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "end date")
}

func Test_ProcessDue_LateSweepKeepsScheduledDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	clientID := createTestID()
	templateID := createTestID()
	invoiceID := createTestID()

	// The sweep runs three days after the scheduled run.
	tmpl := createTestTemplate(templateID, userID, clientID)
	now := date(2025, time.March, 18)

	store.MockQuerier.EXPECT().
		ListDueRecurringInvoices(ctx, repository.ListDueRecurringInvoicesParams{AsOf: tsOf(now), Limit: 500}).
		Return([]repository.RecurringInvoice{tmpl}, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetUserByID(ctx, userID).Return(createTestUser(userID, "pro"), nil)
	store.MockQuerier.EXPECT().
		GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}).
		Return(createTestClient(clientID, userID), nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceItems(ctx, templateID).
		Return([]repository.RecurringInvoiceItem{{Description: "Retainer", Quantity: dec("1"), Rate: dec("500")}}, nil)
	store.MockQuerier.EXPECT().NextInvoiceNumber(ctx, userID).
		Return(repository.NextInvoiceNumberRow{InvoicePrefix: "INV", Sequence: 13}, nil)
	store.MockQuerier.EXPECT().CreateInvoice(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.CreateInvoiceParams) (repository.Invoice, error) {
			require.True(t, arg.InvoiceDate.Valid)
			assert.True(t, arg.InvoiceDate.Time.Equal(date(2025, time.March, 15)), "late sweep keeps the scheduled invoice date")
			assert.True(t, arg.DueDate.Time.Equal(date(2025, time.April, 14)))
			return repository.Invoice{ID: invoiceID, UserID: userID}, nil
		})
	store.MockQuerier.EXPECT().CreateInvoiceItem(ctx, gomock.Any()).Return(repository.InvoiceItem{}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)
	store.MockQuerier.EXPECT().AdvanceRecurringSchedule(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.AdvanceRecurringScheduleParams) (repository.RecurringInvoice, error) {
			require.True(t, arg.NextRunAt.Valid)
			assert.True(t, arg.NextRunAt.Time.Equal(date(2025, time.April, 15)), "next run projects from the schedule, not the sweep time")
			return tmpl, nil
		})
	store.MockQuerier.EXPECT().GetInvoiceItems(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoicePayments(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoiceHistory(ctx, invoiceID).Return(nil, nil)

	svc := NewRecurringService(store, nil, testLogger())
	result, err := svc.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
}

func Test_RunNow_ForcedEarlyRunKeepsSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	store := newMockStore(ctrl)
	userID := createTestID()
	clientID := createTestID()
	templateID := createTestID()
	invoiceID := createTestID()

	tmpl := createTestTemplate(templateID, userID, clientID)
	// Next run is well in the future; a forced run must not move it.
	tmpl.NextRunAt = pgtype.Timestamptz{Time: time.Now().UTC().AddDate(0, 1, 0), Valid: true}

	store.MockQuerier.EXPECT().
		GetRecurringInvoice(ctx, repository.GetRecurringInvoiceParams{ID: templateID, UserID: userID}).
		Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceForUpdate(ctx, templateID).Return(tmpl, nil)
	store.MockQuerier.EXPECT().GetUserByID(ctx, userID).Return(createTestUser(userID, "pro"), nil)
	store.MockQuerier.EXPECT().
		GetClient(ctx, repository.GetClientParams{ID: clientID, UserID: userID}).
		Return(createTestClient(clientID, userID), nil)
	store.MockQuerier.EXPECT().GetRecurringInvoiceItems(ctx, templateID).
		Return([]repository.RecurringInvoiceItem{{Description: "Retainer", Quantity: dec("1"), Rate: dec("500")}}, nil)
	store.MockQuerier.EXPECT().NextInvoiceNumber(ctx, userID).
		Return(repository.NextInvoiceNumberRow{InvoicePrefix: "INV", Sequence: 14}, nil)
	store.MockQuerier.EXPECT().CreateInvoice(ctx, gomock.Any()).
		Return(repository.Invoice{ID: invoiceID, UserID: userID}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceItem(ctx, gomock.Any()).Return(repository.InvoiceItem{}, nil)
	store.MockQuerier.EXPECT().CreateInvoiceHistory(ctx, gomock.Any()).Return(repository.InvoiceHistory{}, nil)
	store.MockQuerier.EXPECT().AdvanceRecurringSchedule(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, arg repository.AdvanceRecurringScheduleParams) (repository.RecurringInvoice, error) {
			require.True(t, arg.NextRunAt.Valid)
			assert.True(t, arg.NextRunAt.Time.Equal(tmpl.NextRunAt.Time), "forced run keeps the scheduled next run")
			return tmpl, nil
		})
	store.MockQuerier.EXPECT().GetInvoiceItems(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoicePayments(ctx, invoiceID).Return(nil, nil)
	store.MockQuerier.EXPECT().GetInvoiceHistory(ctx, invoiceID).Return(nil, nil)

	svc := NewRecurringService(store, nil, testLogger())
	_, err := svc.RunNow(ctx, userID.String(), templateID.String())
	require.NoError(t, err)
}
