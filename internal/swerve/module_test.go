package swerve_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-862/lightning-util/internal/swerve"
)

const tol = 1e-9

var _ = Describe("Module", func() {
	var (
		drive *fakeDrive
		steer *fakeSteer
		mod   *swerve.Module
	)

	BeforeEach(func() {
		drive = &fakeDrive{}
		steer = &fakeSteer{}
		mod = swerve.NewModule(drive, steer)
	})

	Describe("Set", func() {
		It("passes a forward setpoint through unchanged", func() {
			mod.Set(2.0, 0.5)
			Expect(drive.reference).To(Equal(2.0))
			Expect(steer.reference).To(BeNumerically("~", 0.5, tol))
		})

		It("reverses the wheel instead of turning more than 90 degrees", func() {
			mod.Set(5.0, 3*math.Pi)
			Expect(drive.reference).To(Equal(-5.0))
			Expect(swerve.ShortestAngle(0, steer.reference)).To(BeNumerically("~", 0, tol))
			Expect(steer.reference).To(BeNumerically(">=", 0))
			Expect(steer.reference).To(BeNumerically("<", 2*math.Pi))
		})

		It("does not reverse at exactly 90 degrees", func() {
			mod.Set(1.0, math.Pi/2)
			Expect(drive.reference).To(Equal(1.0))
			Expect(steer.reference).To(Equal(math.Pi / 2))
		})

		It("reverses just past 90 degrees in either direction", func() {
			mod.Set(1.0, math.Pi/2+1e-6)
			Expect(drive.reference).To(Equal(-1.0))

			mod.Set(1.0, -math.Pi/2-1e-6)
			Expect(drive.reference).To(Equal(-1.0))
		})

		It("tolerates an unwrapped current angle", func() {
			steer.angle = 10*math.Pi + 0.1
			mod.Set(3.0, 0.2)
			Expect(drive.reference).To(Equal(3.0))
			Expect(steer.reference).To(BeNumerically("~", 0.2, tol))
		})

		It("commands both controllers on every call", func() {
			for i := 0; i < 3; i++ {
				mod.Set(0, steer.angle)
			}
			Expect(drive.references).To(Equal(3))
			Expect(steer.references).To(Equal(3))
		})

		It("is idempotent while the reported angle is unchanged", func() {
			steer.angle = 1.3
			mod.Set(-2.5, 4.9)
			firstSpeed, firstAngle := drive.reference, steer.reference
			mod.Set(-2.5, 4.9)
			Expect(drive.reference).To(Equal(firstSpeed))
			Expect(steer.reference).To(Equal(firstAngle))
		})

		It("never asks for more than a quarter turn", func() {
			for current := -20.0; current <= 20.0; current += 0.37 {
				for target := -20.0; target <= 20.0; target += 0.41 {
					steer.angle = current
					mod.Set(1.0, target)
					delta := swerve.ShortestAngle(current, steer.reference)
					Expect(math.Abs(delta)).To(BeNumerically("<=", math.Pi/2+tol))
				}
			}
		})

		It("keeps the wheel velocity vector", func() {
			steer.angle = 0.4
			mod.Set(2.0, 3.5)
			wantX, wantY := 2.0*math.Cos(3.5), 2.0*math.Sin(3.5)
			gotX := drive.reference * math.Cos(steer.reference)
			gotY := drive.reference * math.Sin(steer.reference)
			Expect(gotX).To(BeNumerically("~", wantX, tol))
			Expect(gotY).To(BeNumerically("~", wantY, tol))
		})
	})

	Describe("state accessors", func() {
		BeforeEach(func() {
			drive.velocity = 1.5
			drive.position = 12.25
			drive.voltage = 11.8
			drive.temperature = 41
			drive.amperage = 22
			steer.angle = 7.5
			steer.temperature = 35
		})

		It("reports the raw steer angle and distance", func() {
			mod.Set(1.0, 0)
			pos := mod.Position()
			Expect(pos.Distance).To(Equal(12.25))
			Expect(pos.Angle.Radians()).To(Equal(7.5))
		})

		It("passes every getter through", func() {
			Expect(mod.DriveVelocity()).To(Equal(1.5))
			Expect(mod.SteerAngle()).To(Equal(7.5))
			Expect(mod.DriveVoltage()).To(Equal(11.8))
			Expect(mod.DriveTemperature()).To(Equal(41.0))
			Expect(mod.DriveAmperage()).To(Equal(22.0))
			Expect(mod.SteerTemperature()).To(Equal(35.0))
			Expect(mod.State()).To(Equal(swerve.ModuleState{
				DriveVelocity:    1.5,
				DrivePosition:    12.25,
				SteerAngle:       7.5,
				DriveVoltage:     11.8,
				DriveTemperature: 41,
				DriveAmperage:    22,
				SteerTemperature: 35,
			}))
		})

		It("delegates encoder seeding and current limits", func() {
			mod.SetEncoderAngle()
			mod.SetDriveCurrentLimit(40)
			Expect(steer.seeded).To(Equal(1))
			Expect(drive.currentLimit).To(Equal(40))
		})
	})
})
