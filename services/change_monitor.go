package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/realtime"
	"github.com/kenylson23/lastortillas-backend/utils"
)

// ChangeMonitor is the polling fallback of the sync layer. It scans for
// orders and tables touched since its watermark and re-broadcasts them, so
// viewers converge even when a mutation happened outside this process (or a
// direct broadcast was missed). Staleness is bounded by Interval.
type ChangeMonitor struct {
	DB       *gorm.DB
	Interval time.Duration
	StopChan chan struct{}

	ordersSince time.Time
	tablesSince time.Time
}

func NewChangeMonitor(db *gorm.DB, interval time.Duration) *ChangeMonitor {
	now := time.Now()
	return &ChangeMonitor{
		DB:          db,
		Interval:    interval,
		StopChan:    make(chan struct{}),
		ordersSince: now,
		tablesSince: now,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	cm.checkOrders()
	cm.checkTables()
}

func (cm *ChangeMonitor) checkOrders() {
	var orders []models.Order
	if err := cm.DB.Preload("Items").
		Where("updated_at > ?", cm.ordersSince).
		Order("updated_at asc").
		Limit(100).
		Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: error fetching orders: %v", err)
		return
	}

	for _, order := range orders {
		realtime.BroadcastOrderStatus(order)
		if order.UpdatedAt.After(cm.ordersSince) {
			cm.ordersSince = order.UpdatedAt
		}
	}
}

func (cm *ChangeMonitor) checkTables() {
	var tables []models.Table
	if err := cm.DB.
		Where("updated_at > ?", cm.tablesSince).
		Order("updated_at asc").
		Limit(100).
		Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: error fetching tables: %v", err)
		return
	}

	for _, table := range tables {
		realtime.BroadcastTables(table)
		if table.UpdatedAt.After(cm.tablesSince) {
			cm.tablesSince = table.UpdatedAt
		}
	}
}
