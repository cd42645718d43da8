package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-visualizer/models"
)

type fakeFleet struct {
	mu     sync.Mutex
	robots []*models.Robot
}

func newFakeFleet(n int) *fakeFleet {
	f := &fakeFleet{}
	for i := 0; i < n; i++ {
		f.robots = append(f.robots, models.NewRobot(i))
	}
	return f
}

func (f *fakeFleet) GetRobotCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.robots)
}

func (f *fakeFleet) Mutate(id int, fn func(r *models.Robot)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id < 0 || id >= len(f.robots) {
		return errors.New("Robot ID out of range")
	}
	fn(f.robots[id])
	return nil
}

func (f *fakeFleet) robot(id int) models.Robot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.robots[id]
}

func TestSimulatorStepCyclesPhases(t *testing.T) {
	fleet := newFakeFleet(2)
	sim := NewRobotSimulator(fleet, time.Hour)

	sim.Step()
	r := fleet.robot(0)
	assert.False(t, r.IsParked)
	assert.Equal(t, 92.0, r.BatteryStatus)
	assert.Equal(t, "출발", r.Message)
	require.Len(t, r.Messages, 1)
	assert.Equal(t, models.EventUnparked, r.Messages[0].Event)

	sim.Step()
	r = fleet.robot(0)
	assert.True(t, r.IsReversing)
	assert.Equal(t, 90.0, r.BatteryStatus)

	sim.Step()
	r = fleet.robot(0)
	assert.False(t, r.IsReversing)
	assert.True(t, r.IsParked)

	sim.Step()
	assert.True(t, fleet.robot(0).IsDoorOpened)
	sim.Step()
	assert.False(t, fleet.robot(0).IsDoorOpened)

	sim.Step()
	r = fleet.robot(0)
	assert.True(t, r.IsCharging)
	assert.Equal(t, 100.0, r.BatteryStatus, "충전은 100%를 넘지 않음")

	sim.Step()
	r = fleet.robot(0)
	assert.False(t, r.IsCharging)
	assert.Equal(t, 7, r.LastMessageID)

	// 한 바퀴 돈 뒤 처음 단계로
	sim.Step()
	assert.False(t, fleet.robot(0).IsParked)
	assert.Equal(t, 8, fleet.robot(1).LastMessageID, "모든 로봇이 함께 진행")
}

func TestSimulatorStartStop(t *testing.T) {
	fleet := newFakeFleet(1)
	sim := NewRobotSimulator(fleet, 5*time.Millisecond)

	sim.Start()
	sim.Start()
	assert.Eventually(t, func() bool {
		return fleet.robot(0).LastMessageID >= 2
	}, time.Second, 5*time.Millisecond)

	sim.Stop()
	sim.Stop()
	stopped := fleet.robot(0).LastMessageID
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, fleet.robot(0).LastMessageID)
}

func TestSimulatorDefaultInterval(t *testing.T) {
	sim := NewRobotSimulator(newFakeFleet(0), 0)
	assert.Equal(t, 3*time.Second, sim.interval)
	assert.NotPanics(t, sim.Step)
}
