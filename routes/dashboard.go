package routes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theophane330/HABIPRO-NEW/models"
	"github.com/theophane330/HABIPRO-NEW/services"
	"github.com/theophane330/HABIPRO-NEW/storage"
	"github.com/theophane330/HABIPRO-NEW/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

const dashboardCacheTTL = 5 * time.Minute

// DashboardStats is the owner overview payload
type DashboardStats struct {
	TotalProperties    int64            `json:"totalProperties"`
	PropertiesByStatus map[string]int64 `json:"propertiesByStatus"`
	ActiveLeases       int64            `json:"activeLeases"`
	TotalTenants       int64            `json:"totalTenants"`
	PendingVisits      int64            `json:"pendingVisits"`
	OpenMaintenance    int64            `json:"openMaintenance"`

	CurrentMonth    string  `json:"currentMonth"`
	ExpectedRevenue float64 `json:"expectedRevenue"`
	ReceivedRevenue float64 `json:"receivedRevenue"`
	CollectionRate  float64 `json:"collectionRate"`
	GeneratedAt     string  `json:"generatedAt"`
}

// GetDashboardStats aggregates the owner's portfolio figures. Results are
// cached in Redis per owner; mutations do not invalidate the cache, it
// simply expires.
func GetDashboardStats(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	cacheKey := fmt.Sprintf("dashboard:%d", claims.ID)
	if cached, err := storage.Redis.Get(ctx.Request().Context(), cacheKey).Result(); err == nil {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			ctx.JSON(stats)
			return
		}
	}

	stats, err := computeDashboardStats(claims.ID, time.Now())
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if payload, err := json.Marshal(stats); err == nil {
		storage.Redis.Set(ctx.Request().Context(), cacheKey, payload, dashboardCacheTTL)
	}

	ctx.JSON(stats)
}

func computeDashboardStats(ownerID uint, now time.Time) (*DashboardStats, error) {
	stats := DashboardStats{
		PropertiesByStatus: map[string]int64{},
		CurrentMonth:       services.MonthLabel(now.Year(), now.Month()),
		GeneratedAt:        now.Format(time.RFC3339),
	}

	if err := storage.DB.Model(&models.Property{}).
		Where("owner_id = ?", ownerID).Count(&stats.TotalProperties).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := storage.DB.Model(&models.Property{}).
		Select("status, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.PropertiesByStatus[c.Status] = c.Count
	}

	if err := storage.DB.Model(&models.Lease{}).
		Where("owner_id = ? AND status = ?", ownerID, models.LeaseStatusActive).
		Count(&stats.ActiveLeases).Error; err != nil {
		return nil, err
	}

	if err := storage.DB.Model(&models.Tenant{}).
		Where("owner_id = ?", ownerID).Count(&stats.TotalTenants).Error; err != nil {
		return nil, err
	}

	if err := storage.DB.Model(&models.VisitRequest{}).
		Where("owner_id = ? AND status = ?", ownerID, models.VisitStatusPending).
		Count(&stats.PendingVisits).Error; err != nil {
		return nil, err
	}

	if err := storage.DB.Model(&models.MaintenanceRequest{}).
		Where("owner_id = ? AND status IN ?", ownerID,
			[]string{models.MaintenanceStatusPending, models.MaintenanceStatusInProgress}).
		Count(&stats.OpenMaintenance).Error; err != nil {
		return nil, err
	}

	// Expected: sum of active rental contract amounts. Received: completed
	// payments recorded for the current month label.
	var expected *float64
	if err := storage.DB.Model(&models.Contract{}).
		Select("sum(amount)").
		Where("owner_id = ? AND status = ? AND contract_type = ?",
			ownerID, models.ContractStatusActive, models.ContractTypeRental).
		Scan(&expected).Error; err != nil {
		return nil, err
	}
	if expected != nil {
		stats.ExpectedRevenue = *expected
	}

	var received *float64
	if err := storage.DB.Model(&models.Payment{}).
		Select("sum(amount)").
		Where("owner_id = ? AND status = ? AND payment_month = ?",
			ownerID, models.PaymentStatusCompleted, stats.CurrentMonth).
		Scan(&received).Error; err != nil {
		return nil, err
	}
	if received != nil {
		stats.ReceivedRevenue = *received
	}

	if stats.ExpectedRevenue > 0 {
		stats.CollectionRate = stats.ReceivedRevenue / stats.ExpectedRevenue * 100
	}

	return &stats, nil
}
