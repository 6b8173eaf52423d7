package salus

import "github.com/declanomara/tidepool/internal/domain"

func collectorActionCountKey(s domain.HealthSnapshot) float64 {
	return float64(s.DataCollector.ActionCount)
}

func validatorActionCountKey(s domain.HealthSnapshot) float64 {
	return float64(s.DataValidator.ActionCount)
}

func pusherActionCountKey(s domain.HealthSnapshot) float64 {
	return float64(s.DataPusher.ActionCount)
}
