package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSchedules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ustaz, err := svc.CreatePreacher(ctx, "Ustaz Kamal", "0111", "Fiqh")
	require.NoError(t, err)
	assert.True(t, ustaz.Active)
	ustazah, err := svc.CreatePreacher(ctx, "Ustaz Halim", "", "Tafsir")
	require.NoError(t, err)

	_, err = svc.UpsertSchedules(ctx, []ScheduleInput{
		{Tarikh: day(2024, 3, 1), Slot: "Maghrib", PreacherID: ustaz.ID, Topik: "Solat"},
		{Tarikh: day(2024, 3, 2), Slot: "subuh", PreacherID: ustaz.ID},
	})
	require.NoError(t, err)

	// same day and slot overwrites
	_, err = svc.UpsertSchedules(ctx, []ScheduleInput{
		{Tarikh: day(2024, 3, 1), Slot: "maghrib", PreacherID: ustazah.ID, Topik: "Tafsir Yasin"},
	})
	require.NoError(t, err)

	schedules, err := svc.ListSchedules(ctx, 2024, 3)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, ustazah.ID, schedules[0].PreacherID)
	assert.Equal(t, "Tafsir Yasin", schedules[0].Topik)
	require.NotNil(t, schedules[0].Preacher)
	assert.Equal(t, "Ustaz Halim", schedules[0].Preacher.Nama)

	year, err := svc.ListSchedules(ctx, 2024, 0)
	require.NoError(t, err)
	assert.Len(t, year, 2)

	require.NoError(t, svc.DeleteSchedule(ctx, schedules[1].ID))
	assert.ErrorIs(t, svc.DeleteSchedule(ctx, schedules[1].ID), ErrNotFound)
}

func TestUpsertSchedulesValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ustaz, err := svc.CreatePreacher(ctx, "Ustaz Kamal", "", "")
	require.NoError(t, err)

	_, err = svc.UpsertSchedules(ctx, nil)
	assert.True(t, IsValidationError(err))
	_, err = svc.UpsertSchedules(ctx, []ScheduleInput{{Tarikh: day(2024, 3, 1), Slot: "asar", PreacherID: ustaz.ID}})
	assert.True(t, IsValidationError(err))
	_, err = svc.UpsertSchedules(ctx, []ScheduleInput{
		{Tarikh: day(2024, 3, 1), Slot: "isyak", PreacherID: ustaz.ID},
		{Tarikh: day(2024, 3, 1), Slot: "isyak", PreacherID: ustaz.ID},
	})
	assert.True(t, IsValidationError(err))

	// an unknown preacher rolls the whole batch back
	_, err = svc.UpsertSchedules(ctx, []ScheduleInput{
		{Tarikh: day(2024, 3, 1), Slot: "isyak", PreacherID: ustaz.ID},
		{Tarikh: day(2024, 3, 2), Slot: "isyak", PreacherID: ustaz.ID + 100},
	})
	assert.True(t, IsValidationError(err))
	schedules, err := svc.ListSchedules(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Empty(t, schedules)
}
