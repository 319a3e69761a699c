package core

// Stream defaults shared by the signal generators, the stream driver and the
// render tool.
const (
	DefaultSampleRate = 48000.0
	// DefaultBlockSize is the frames per driver block. Filter parameters are
	// polled once per block, so this also fixes the control rate.
	DefaultBlockSize = 64
)

// ProcessorConfig is the sample rate and block size a stream runs at.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption adjusts a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns DefaultSampleRate and DefaultBlockSize.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
	}
}

// ControlRateHz is how often per second block-polled parameters can change.
func (c ProcessorConfig) ControlRateHz() float64 {
	if c.BlockSize <= 0 {
		return c.SampleRate
	}
	return c.SampleRate / float64(c.BlockSize)
}

// BlockDuration returns the length of one block in seconds.
func (c ProcessorConfig) BlockDuration() float64 {
	return 1 / c.ControlRateHz()
}

// WithSampleRate overrides the sample rate. Non-positive or non-finite values
// keep the current one.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && IsFinite(sampleRate) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize overrides the block size. Values below 1 keep the current one.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions starts from DefaultProcessorConfig and applies opts
// in order; nil options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
