// Package gateway loads and saves the collections, and the id counter, as JSON blobs.
package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/session"
	"github.com/trezcool/tuition/storage/blob"
)

// collection names
const (
	Students    = "students"
	Attendance  = "attendance"
	Reschedules = "reschedules"
	Meta        = "meta"
)

// metaRecord holds the counters that cannot be derived from the collections.
type metaRecord struct {
	LastStudentID int `json:"last_student_id"`
}

type Gateway struct {
	store blob.Store
	loc   *time.Location // reads zone-less timestamps
	log   core.Logger
}

var _ session.Gateway = (*Gateway)(nil) // interface compliance check

// New returns a Gateway over store. Stored timestamps without a zone are read in loc (time.Local if nil).
func New(store blob.Store, loc *time.Location, log core.Logger) *Gateway {
	if loc == nil {
		loc = time.Local
	}
	return &Gateway{store: store, loc: loc, log: log}
}

// LoadAll reads every collection. A collection never saved loads empty.
// Files written before the meta blob existed load with a zero counter.
func (gw *Gateway) LoadAll(ctx context.Context) (session.State, error) {
	state := session.State{}

	var students []studentRecord
	if err := gw.load(ctx, Students, &students); err != nil {
		return state, err
	}
	for _, rec := range students {
		std, skipped := rec.toStudent(gw.loc)
		if len(skipped) > 0 {
			gw.log.Warn("ignoring unknown weekdays", map[string]interface{}{"student": std.ID, "days": skipped})
		}
		state.Students = append(state.Students, std)
	}

	var attendance []attendanceRecord
	if err := gw.load(ctx, Attendance, &attendance); err != nil {
		return state, err
	}
	for _, rec := range attendance {
		state.Attendance = append(state.Attendance, rec.toRecord(gw.loc))
	}

	var reschedules []rescheduleRecord
	if err := gw.load(ctx, Reschedules, &reschedules); err != nil {
		return state, err
	}
	for _, rec := range reschedules {
		state.Reschedules = append(state.Reschedules, rec.toReschedule(gw.loc))
	}

	var meta metaRecord
	if err := gw.load(ctx, Meta, &meta); err != nil {
		return state, err
	}
	state.LastStudentID = meta.LastStudentID
	return state, nil
}

func (gw *Gateway) load(ctx context.Context, name string, dest interface{}) error {
	data, err := gw.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "loading %s", name)
	}
	if len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}
	return nil
}

// SaveAll writes each collection independently. Failed collections are reported in a *core.SaveError;
// the others are still written.
func (gw *Gateway) SaveAll(ctx context.Context, state session.State) error {
	students := make([]studentRecord, 0, len(state.Students))
	for _, std := range state.Students {
		students = append(students, fromStudent(std))
	}
	attendance := make([]attendanceRecord, 0, len(state.Attendance))
	for _, r := range state.Attendance {
		attendance = append(attendance, fromRecord(r))
	}
	reschedules := make([]rescheduleRecord, 0, len(state.Reschedules))
	for _, r := range state.Reschedules {
		reschedules = append(reschedules, fromReschedule(r))
	}

	failed := make(map[string]error)
	for _, c := range []struct {
		name string
		data interface{}
	}{
		{Students, students},
		{Attendance, attendance},
		{Reschedules, reschedules},
		{Meta, metaRecord{LastStudentID: state.LastStudentID}},
	} {
		if err := gw.save(ctx, c.name, c.data); err != nil {
			gw.log.Error("saving "+c.name, err)
			failed[c.name] = err
		}
	}
	if len(failed) > 0 {
		return &core.SaveError{Failed: failed}
	}
	return nil
}

func (gw *Gateway) save(ctx context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	return gw.store.Put(ctx, name, data)
}
