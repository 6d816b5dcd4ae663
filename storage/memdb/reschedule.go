package memdb

import (
	"github.com/trezcool/tuition/core/reschedule"
)

type rescheduleRepository struct {
	db *rescheduleTable
}

var _ reschedule.Repository = (*rescheduleRepository)(nil) // interface compliance check

func (repo *rescheduleRepository) CreateReschedule(res reschedule.Reschedule) (reschedule.Reschedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.lastID++
	res.ID = repo.db.lastID
	repo.db.rows = append(repo.db.rows, res)
	return res, nil
}

func (repo *rescheduleRepository) QueryAllReschedules() ([]reschedule.Reschedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append(make([]reschedule.Reschedule, 0, len(repo.db.rows)), repo.db.rows...), nil
}
