package swerve

// DriveController is the capability set of a wheel drive motor and its
// encoder. Values are in module units: meters, meters per second, volts,
// degrees Celsius and amps.
//
// Methods do not return errors. An implementation that loses contact with its
// hardware must keep answering, with the last known value or zero, because a
// missed control tick is worse than a stale reading.
type DriveController interface {
	SetReferenceSpeed(metersPerSecond float64)
	StateVelocity() float64
	StatePosition() float64
	Voltage() float64
	Temperature() float64
	Amperage() float64
	SetCurrentLimit(amps int)
}

// SteerController is the capability set of a steering motor and its absolute
// encoder. Angles are in radians and are not wrapped into any range.
type SteerController interface {
	SetReferenceAngle(radians float64)
	StateAngle() float64
	// SetMotorEncoderAngle seeds the motor encoder from the absolute encoder.
	SetMotorEncoderAngle()
	Temperature() float64
}

// Container is a write-only telemetry sink. Factories may register widgets
// on it while building a controller; nothing in this package reads it back.
type Container interface {
	AddNumber(name string, supplier func() float64)
	AddString(name string, supplier func() string)
}

// DriveControllerFactory builds drive controllers from a hardware specific
// configuration C. The container is nil when no telemetry is attached.
type DriveControllerFactory[C any] interface {
	Create(cfg C, module ModuleConfiguration, container Container) (DriveController, error)
}

// SteerControllerFactory builds steer controllers from a hardware specific
// configuration C. The container is nil when no telemetry is attached.
type SteerControllerFactory[C any] interface {
	Create(cfg C, module ModuleConfiguration, container Container) (SteerController, error)
}

// DriveControllerFactoryFunc adapts a function to DriveControllerFactory.
type DriveControllerFactoryFunc[C any] func(cfg C, module ModuleConfiguration, container Container) (DriveController, error)

func (f DriveControllerFactoryFunc[C]) Create(cfg C, module ModuleConfiguration, container Container) (DriveController, error) {
	return f(cfg, module, container)
}

// SteerControllerFactoryFunc adapts a function to SteerControllerFactory.
type SteerControllerFactoryFunc[C any] func(cfg C, module ModuleConfiguration, container Container) (SteerController, error)

func (f SteerControllerFactoryFunc[C]) Create(cfg C, module ModuleConfiguration, container Container) (SteerController, error) {
	return f(cfg, module, container)
}
