package gnosis

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serialization events.
var (
	SignalDumpStart       = capitan.NewSignal("gnosis.dump.start", "Dump operation beginning")
	SignalDumpComplete    = capitan.NewSignal("gnosis.dump.complete", "Dump operation finished")
	SignalLoadStart       = capitan.NewSignal("gnosis.load.start", "Load operation beginning")
	SignalLoadComplete    = capitan.NewSignal("gnosis.load.complete", "Load operation finished")
	SignalClassRegistered = capitan.NewSignal("gnosis.class.registered", "Class factory registered")
)

// Keys for typed event data.
var (
	KeyTypeName = capitan.NewStringKey("type_name")
	KeyModule   = capitan.NewStringKey("module")
	KeyClass    = capitan.NewStringKey("class")
	KeySize     = capitan.NewIntKey("size")
	KeyObjects  = capitan.NewIntKey("objects")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitDumpStart emits an event when a dump begins.
func emitDumpStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalDumpStart,
		KeyTypeName.Field(typeName),
	)
}

// emitDumpComplete emits an event when a dump finishes.
func emitDumpComplete(ctx context.Context, typeName string, size int, duration time.Duration, objects int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyObjects.Field(objects),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDumpComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDumpComplete, fields...)
	}
}

// emitLoadStart emits an event when a load begins.
func emitLoadStart(ctx context.Context) {
	capitan.Emit(ctx, SignalLoadStart)
}

// emitLoadComplete emits an event when a load finishes.
func emitLoadComplete(ctx context.Context, typeName string, duration time.Duration, objects int, err error) {
	fields := []capitan.Field{
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyObjects.Field(objects),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitClassRegistered emits an event when a class factory is registered.
func emitClassRegistered(module, class string) {
	capitan.Emit(context.Background(), SignalClassRegistered,
		KeyModule.Field(module),
		KeyClass.Field(class),
	)
}
