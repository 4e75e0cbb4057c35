package swerve_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-862/lightning-util/internal/swerve"
)

var _ = Describe("ModuleFactory", func() {
	var (
		gotDriveID    int
		gotSteerCfg   string
		gotModule     swerve.ModuleConfiguration
		gotContainers []swerve.Container
		driveErr      error
		steerErr      error
		factory       *swerve.ModuleFactory[int, string]
	)

	BeforeEach(func() {
		gotContainers = nil
		driveErr, steerErr = nil, nil

		drive := swerve.DriveControllerFactoryFunc[int](func(id int, m swerve.ModuleConfiguration, c swerve.Container) (swerve.DriveController, error) {
			if driveErr != nil {
				return nil, driveErr
			}
			gotDriveID = id
			gotModule = m
			gotContainers = append(gotContainers, c)
			d := &fakeDrive{}
			if c != nil {
				c.AddNumber("Current Velocity", d.StateVelocity)
			}
			return d, nil
		})
		steer := swerve.SteerControllerFactoryFunc[string](func(cfg string, m swerve.ModuleConfiguration, c swerve.Container) (swerve.SteerController, error) {
			if steerErr != nil {
				return nil, steerErr
			}
			gotSteerCfg = cfg
			gotContainers = append(gotContainers, c)
			return &fakeSteer{}, nil
		})
		factory = swerve.NewModuleFactory(swerve.MK4iL2, drive, steer)
	})

	It("hands the shared configuration to the controller factories", func() {
		mod, err := factory.Create(7, "front-left")
		Expect(err).NotTo(HaveOccurred())
		Expect(mod).NotTo(BeNil())
		Expect(gotDriveID).To(Equal(7))
		Expect(gotSteerCfg).To(Equal("front-left"))
		Expect(gotModule).To(Equal(swerve.MK4iL2))
		Expect(factory.Configuration()).To(Equal(swerve.MK4iL2))
	})

	It("builds headless modules without a container", func() {
		_, err := factory.Create(1, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(gotContainers).To(HaveLen(2))
		Expect(gotContainers[0]).To(BeNil())
		Expect(gotContainers[1]).To(BeNil())
	})

	It("passes the telemetry container to both factories", func() {
		container := newRecordingContainer()
		_, err := factory.Create(1, "a", swerve.WithContainer(container))
		Expect(err).NotTo(HaveOccurred())
		Expect(gotContainers).To(ConsistOf(container, container))
		Expect(container.numbers).To(HaveKey("Current Velocity"))
	})

	It("produces identical control behavior with and without telemetry", func() {
		headless, err := factory.Create(1, "a")
		Expect(err).NotTo(HaveOccurred())
		attached, err := factory.Create(1, "a", swerve.WithContainer(newRecordingContainer()))
		Expect(err).NotTo(HaveOccurred())

		headless.Set(3, 2.5)
		attached.Set(3, 2.5)
		Expect(attached.State()).To(Equal(headless.State()))
	})

	It("wraps drive factory failures", func() {
		driveErr = errors.New("no such CAN device")
		_, err := factory.Create(1, "a")
		Expect(err).To(MatchError(swerve.ErrDriveController))
		Expect(err).To(MatchError(driveErr))
	})

	It("wraps steer factory failures", func() {
		steerErr = errors.New("encoder unreachable")
		_, err := factory.Create(1, "a")
		Expect(err).To(MatchError(swerve.ErrSteerController))
		Expect(err).To(MatchError(steerErr))
	})

	It("closes the drive when the steer factory fails", func() {
		drive := &closingDrive{}
		f := swerve.NewModuleFactory(swerve.MK4iL2,
			swerve.DriveControllerFactoryFunc[int](func(int, swerve.ModuleConfiguration, swerve.Container) (swerve.DriveController, error) {
				return drive, nil
			}),
			swerve.SteerControllerFactoryFunc[string](func(string, swerve.ModuleConfiguration, swerve.Container) (swerve.SteerController, error) {
				return nil, errors.New("encoder unreachable")
			}))

		_, err := f.Create(1, "a")
		Expect(err).To(MatchError(swerve.ErrSteerController))
		Expect(drive.closed).To(Equal(1))
	})
})
