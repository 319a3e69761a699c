package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-ladder/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(64),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 blockSize=64
}

func ExampleClamp() {
	fmt.Println(core.Clamp(30000, 1, 0.49*44100))

	// Output:
	// 21609
}
