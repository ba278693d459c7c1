package imu

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

// Simulated is a Sensor producing a stationary board reading with bias and
// gaussian noise.
type Simulated struct {
	Gravity     Vector3
	AccelBias   Vector3
	GyroBias    Vector3
	AccelNoise  float64
	GyroNoise   float64
	Temperature float64
	// Period throttles Read to the sensor's output data rate.
	Period time.Duration

	lock  sync.Mutex
	accel distuv.Normal
	gyro  distuv.Normal
	last  time.Time
	init  bool
}

// NewSimulated creates a level stationary sensor.
func NewSimulated(seed uint64) *Simulated {
	s := &Simulated{
		Gravity:     GravityNED(),
		AccelNoise:  0.02,
		GyroNoise:   0.002,
		Temperature: 25,
	}
	s.seed(seed)
	return s
}

func (s *Simulated) seed(seed uint64) {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	s.accel = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	s.gyro = distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	s.init = true
}

func (s *Simulated) noise(d *distuv.Normal, sigma float64) Vector3 {
	if sigma <= 0 {
		return Vector3{}
	}
	return Vector3{X: d.Rand() * sigma, Y: d.Rand() * sigma, Z: d.Rand() * sigma}
}

// Read implements Sensor.
func (s *Simulated) Read(ctx context.Context) (Sample, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.init {
		s.seed(uint64(time.Now().UnixNano()))
	}
	if s.Period > 0 && !s.last.IsZero() {
		if wait := s.Period - time.Since(s.last); wait > 0 {
			select {
			case <-ctx.Done():
				return Sample{}, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	s.last = time.Now()
	return Sample{
		Accel:       s.Gravity.Add(s.AccelBias).Add(s.noise(&s.accel, s.AccelNoise)),
		Gyro:        s.GyroBias.Add(s.noise(&s.gyro, s.GyroNoise)),
		Temperature: s.Temperature,
	}, nil
}
