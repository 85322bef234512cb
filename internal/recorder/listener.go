package recorder

import (
	"go.uber.org/zap"

	"TankSentinel/internal/model"
)

// RefreshListener returns a coordinator listener that logs every cycle to rec.
func RefreshListener(rec Recorder, logger *zap.Logger) func(model.RefreshResult) {
	return func(res model.RefreshResult) {
		if err := rec.RecordRefresh(NewRefreshEvent(res)); err != nil {
			logger.Error("record refresh", zap.String("cycle_id", res.CycleID), zap.Error(err))
		}
	}
}
