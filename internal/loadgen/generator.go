package loadgen

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/okian/gradebook/internal/domain/model"
	"github.com/okian/gradebook/internal/domain/types"
)

// feeSteps is the number of 500-unit steps a generated fee total may take.
const feeSteps = 20

// Generate builds n students with consecutive keys from startKey. Marks are
// drawn from a seeded source so runs are reproducible; totals collide often
// enough to exercise the key tie-break.
func Generate(n, startKey int, seed uint64) []types.StudentInput {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]types.StudentInput, n)
	for i := range out {
		total := decimal.NewFromInt(int64(500 * (1 + rng.IntN(feeSteps))))
		paid := total.Mul(decimal.NewFromFloat(rng.Float64())).Round(2)
		out[i] = types.StudentInput{
			Key:  startKey + i,
			Name: "student-" + uuid.NewString()[:8],
			Marks: types.Marks{
				DSA:  rng.IntN(model.MaxMark + 1),
				OS:   rng.IntN(model.MaxMark + 1),
				DBMS: rng.IntN(model.MaxMark + 1),
				CN:   rng.IntN(model.MaxMark + 1),
			},
			FeesTotal: total,
			FeesPaid:  paid,
		}
	}
	return out
}

// ExpectedTotal is the total the server must derive for in.
func ExpectedTotal(in types.StudentInput) int {
	return in.Marks.DSA + in.Marks.OS + in.Marks.DBMS + in.Marks.CN
}
