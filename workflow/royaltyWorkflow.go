package workflow

import (
	"context"
	"time"

	"bitbucket.org/fmsdatahub/franchise_backend/config"
	"bitbucket.org/fmsdatahub/franchise_backend/models"
	"bitbucket.org/fmsdatahub/franchise_backend/utils"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("franchise-royalty")

// RoyaltyComputation is the result of running a contract's fee terms over
// one period's reported gross sales. All amounts are rounded to 2 decimal
// places.
type RoyaltyComputation struct {
	RoyaltyAmount  decimal.Decimal
	MarketingFee   decimal.Decimal
	TotalDue       decimal.Decimal
	MinimumApplied bool
}

var oneHundred = decimal.NewFromInt(100)

// CalculateRoyalty applies the contract's royalty rate and marketing levy
// to the reported gross sales, flooring the royalty at the contract's
// minimum fee when the percentage comes in under it.
func CalculateRoyalty(contract *models.Contract, grossSales decimal.Decimal) RoyaltyComputation {
	royalty := grossSales.Mul(contract.RoyaltyRate).Div(oneHundred).Round(2)
	marketing := grossSales.Mul(contract.MarketingFeeRate).Div(oneHundred).Round(2)

	minimumApplied := false
	if contract.MinimumFee.IsPositive() && royalty.LessThan(contract.MinimumFee) {
		royalty = contract.MinimumFee.Round(2)
		minimumApplied = true
	}

	return RoyaltyComputation{
		RoyaltyAmount:  royalty,
		MarketingFee:   marketing,
		TotalDue:       royalty.Add(marketing).Round(2),
		MinimumApplied: minimumApplied,
	}
}

// PostRoyaltyStatement runs the calculation for a pending statement and
// persists the amounts, moving it to calculated and recording the
// transition in the ledger tables.
//
// Posting is serialized per tenant: a Redis lock is taken best-effort (a
// cheap fast-fail across instances) but reliability never depends on Redis;
// the MySQL advisory lock inside the transaction is what actually
// serializes.
func PostRoyaltyStatement(ctx context.Context, logger *logrus.Logger, tenantId string, royaltyId int, actorId int, actorName string) (*models.Royalty, error) {
	ctx, span := tracer.Start(ctx, "PostRoyaltyStatement")
	defer span.End()

	var redLock *redislock.Lock
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "royalty_posting:"+tenantId, 30*time.Second, nil)
		if err == nil {
			redLock = lock
			defer redLock.Release(context.Background())
		}
		// Lock not obtained or Redis down: continue, the advisory lock
		// below serializes safely.
	}

	db := config.GetDB()
	var posted *models.Royalty
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireTenantPostingLock(tx, tenantId); err != nil {
			return err
		}
		defer ReleaseTenantPostingLock(tx, tenantId)

		var royalty models.Royalty
		if err := tx.Where("tenant_id = ?", tenantId).First(&royalty, royaltyId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		var contract models.Contract
		if err := tx.Where("tenant_id = ?", tenantId).First(&contract, royalty.ContractId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		comp := CalculateRoyalty(&contract, royalty.ReportedGrossSales)

		oldStatus := string(royalty.Status)
		updates := map[string]interface{}{
			"royalty_rate":   contract.RoyaltyRate,
			"royalty_amount": comp.RoyaltyAmount,
			"marketing_fee":  comp.MarketingFee,
			"minimum_fee":    contract.MinimumFee,
			"total_due":      comp.TotalDue,
			"status":         models.RoyaltyStatusCalculated,
		}
		if err := tx.Model(&models.Royalty{}).Where("id = ?", royalty.ID).Updates(updates).Error; err != nil {
			return err
		}

		meta, _ := models.EncodeMeta(models.StatusChangeMeta{OldStatus: oldStatus, NewStatus: string(models.RoyaltyStatusCalculated)})
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		activity := models.Activity{
			TenantId:      tenantId,
			EntityType:    models.EntityTypeRoyalty,
			EntityId:      royalty.ID,
			Type:          models.ActivityTypeStatusChange,
			Description:   models.DescribeStatusChange(oldStatus, string(models.RoyaltyStatusCalculated)),
			OldStatus:     oldStatus,
			NewStatus:     string(models.RoyaltyStatusCalculated),
			CreatedBy:     actorId,
			CreatedByName: actorName,
			Metadata:      meta,
		}
		if err := RecordActivity(tx, &activity, correlationId); err != nil {
			config.LogError(logger, "royaltyWorkflow.go", "PostRoyaltyStatement", "RecordActivity", activity, err)
			return err
		}

		if err := tx.Where("tenant_id = ?", tenantId).First(&royalty, royalty.ID).Error; err != nil {
			return err
		}
		posted = &royalty
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// ApplyRoyaltyPayment inserts a payment, bumps the statement's paid amount,
// and moves it to paid when fully covered. The payment also lands on the
// statement's ledger as a payment activity.
func ApplyRoyaltyPayment(ctx context.Context, logger *logrus.Logger, tenantId string, royaltyId int, input models.NewRoyaltyPayment, actorId int, actorName string) (*models.RoyaltyPayment, error) {
	db := config.GetDB()
	var payment *models.RoyaltyPayment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var royalty models.Royalty
		if err := tx.Where("tenant_id = ?", tenantId).First(&royalty, royaltyId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}

		p := models.RoyaltyPayment{
			TenantId:    tenantId,
			RoyaltyId:   royalty.ID,
			Amount:      input.Amount,
			PaymentDate: input.PaymentDate,
			Method:      input.Method,
			Reference:   input.Reference,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		newPaid := royalty.PaidAmount.Add(input.Amount)
		updates := map[string]interface{}{"paid_amount": newPaid}
		oldStatus := string(royalty.Status)
		fullyPaid := newPaid.GreaterThanOrEqual(royalty.TotalDue) && royalty.TotalDue.IsPositive()
		if fullyPaid {
			updates["status"] = models.RoyaltyStatusPaid
		}
		if err := tx.Model(&models.Royalty{}).Where("id = ?", royalty.ID).Updates(updates).Error; err != nil {
			return err
		}

		meta, _ := models.EncodeMeta(models.PaymentMeta{Amount: input.Amount, Date: input.PaymentDate, Method: input.Method})
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		activity := models.Activity{
			TenantId:      tenantId,
			EntityType:    models.EntityTypeRoyalty,
			EntityId:      royalty.ID,
			Type:          models.ActivityTypePayment,
			Description:   "Payment received: " + input.Amount.StringFixed(2),
			CreatedBy:     actorId,
			CreatedByName: actorName,
			Metadata:      meta,
		}
		if fullyPaid {
			activity.OldStatus = oldStatus
			activity.NewStatus = string(models.RoyaltyStatusPaid)
		}
		if err := RecordActivity(tx, &activity, correlationId); err != nil {
			config.LogError(logger, "royaltyWorkflow.go", "ApplyRoyaltyPayment", "RecordActivity", activity, err)
			return err
		}

		payment = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
