// Copyright 2025 trailmark.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/trailmark/reactor/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reactor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemand_AddAlgebra(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.True(Unlimited.Add(NewDemand(5)).IsUnlimited())
	is.True(NewDemand(5).Add(Unlimited).IsUnlimited())
	is.True(Unlimited.Add(Unlimited).IsUnlimited())

	is.Equal(uint64(8), NewDemand(3).Add(NewDemand(5)).Value())

	// commutative
	is.Equal(NewDemand(3).Add(NewDemand(5)), NewDemand(5).Add(NewDemand(3)))
	// associative
	a, b, c := NewDemand(2), NewDemand(3), NewDemand(4)
	is.Equal(a.Add(b).Add(c), a.Add(b.Add(c)))

	// overflow saturates
	is.True(NewDemand(math.MaxUint64).Add(NewDemand(1)).IsUnlimited())
}

func TestDemand_SubAlgebra(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.True(Unlimited.Sub(NewDemand(100)).IsUnlimited())
	is.True(NewDemand(5).Sub(Unlimited).IsZero())
	is.Equal(uint64(0), NewDemand(3).Sub(NewDemand(5)).Value()) // clamps
	is.Equal(uint64(2), NewDemand(5).Sub(NewDemand(3)).Value())
}

func TestDemand_Mul(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal(uint64(10), NewDemand(5).Mul(2).Value())
	is.True(NewDemand(5).Mul(0).IsZero())
	is.True(Unlimited.Mul(3).IsUnlimited())
	is.True(NewDemand(math.MaxUint64).Mul(2).IsUnlimited())
}

func TestDemand_Compare(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal(0, NewDemand(5).Compare(NewDemand(5)))
	is.Equal(-1, NewDemand(3).Compare(NewDemand(5)))
	is.Equal(1, NewDemand(5).Compare(NewDemand(3)))
	is.Equal(1, Unlimited.Compare(NewDemand(math.MaxUint64)))
	is.Equal(-1, NewDemand(math.MaxUint64).Compare(Unlimited))
	is.Equal(0, Unlimited.Compare(Unlimited))
}

func TestDemand_AtLeastOne(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.False(None.AtLeastOne())
	is.True(NewDemand(1).AtLeastOne())
	is.True(Unlimited.AtLeastOne())
}

func TestDemand_String(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Demand(unlimited)", Unlimited.String())
	is.Equal("Demand(5)", NewDemand(5).String())
}
