package dice

import "go.uber.org/zap"

// Roller pairs a Source with a logger so every roll of a build leaves an
// audit line at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness provider.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// RollDie rolls a single die with the given number of faces and logs it.
//
// Postcondition: returns ErrInvalidArgument iff faces <= 0.
func (r *Roller) RollDie(faces int) (int, error) {
	v, err := RollDie(r.src, faces)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("die roll", zap.Int("faces", faces), zap.Int("value", v))
	return v, nil
}
