package constraints

import (
	"fmt"

	"github.com/pinggolf/cryoplanner/internal/index"
	"github.com/pinggolf/cryoplanner/internal/network"
	"github.com/pinggolf/cryoplanner/internal/solver"
)

// addProduction instantiates production[n,p,d], product_produced[n,p,d],
// and (when enabled) mix_count[n,p,d], plus F1 (batch-size enforcement) and
// F2 (production/produced linking).
func addProduction(b *solver.Builder, m *network.Model, idx *index.Indexes, v *Vars, cfg Config) {
	for _, k := range idx.ProdIdx {
		node, _ := m.Node(k.Node)
		product, _ := m.Product(k.Product)

		cap := dailyCapacityUnits(m, node, product, k.Date)

		prodName := fmt.Sprintf("production[%s,%s,%s]", k.Node, k.Product, k.Date.Format("2006-01-02"))
		prodVar := b.AddVar(prodName, solver.Continuous, 0, cap)
		v.Production[k] = prodVar

		producedName := fmt.Sprintf("product_produced[%s,%s,%s]", k.Node, k.Product, k.Date.Format("2006-01-02"))
		producedVar := b.AddVar(producedName, solver.Binary, 0, 1)
		v.ProductProduced[k] = producedVar

		// F2: production <= M * product_produced.
		b.AddConstraint(solver.Constraint{
			Name: fmt.Sprintf("F2[%s,%s,%s]", k.Node, k.Product, k.Date.Format("2006-01-02")),
			Terms: []solver.Term{
				{VarIndex: prodVar, Coef: 1},
				{VarIndex: producedVar, Coef: -cap},
			},
			Sense: solver.LE,
			RHS:   0,
		})

		if cfg.EnforceMixSize && product.UnitsPerMix > 0 {
			maxMixes := float64(cap) / float64(product.UnitsPerMix)
			mixName := fmt.Sprintf("mix_count[%s,%s,%s]", k.Node, k.Product, k.Date.Format("2006-01-02"))
			mixVar := b.AddVar(mixName, solver.Integer, 0, maxMixes)
			v.MixCount[k] = mixVar

			// F1: production = mix_count * units_per_mix.
			b.AddConstraint(solver.Constraint{
				Name: fmt.Sprintf("F1[%s,%s,%s]", k.Node, k.Product, k.Date.Format("2006-01-02")),
				Terms: []solver.Term{
					{VarIndex: prodVar, Coef: 1},
					{VarIndex: mixVar, Coef: -float64(product.UnitsPerMix)},
				},
				Sense: solver.EQ,
				RHS:   0,
			})
		}
	}
}

