// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cryptomix

import "math/big"

// primeDecimal is the locked 2049-bit prime modulus for the crypto FLD
// mixer's multiplicative group Z/pZ. DO NOT ALTER: every crypto digest ever
// produced depends on this value remaining exactly as specified.
const primeDecimal = "50763434429823703141085322590076158163032399096130816327134180611270739679038131809123861970975131471260684737408234060876742190838745219274061025048845231234136148410311444604554192918702297959809128216170781389312847013812749872750274650041183009144583521632294518996531883338553737214586176414455965584933129379474747808392433032576309945590584603359054260866543918929486383805924215982747035136255123252119828736134723149397165643360162699752374292974151421555939481822911026769138419707577501643119472226283015793622652706604535623136902831581637275314074553942039263472515423713366344495524733341031029964603383"

// P is the locked 2049-bit prime. Crypto hasher states are always kept in
// [0, P).
var P = func() *big.Int {
	p, ok := new(big.Int).SetString(primeDecimal, 10)
	if !ok {
		panic("cryptomix: malformed prime constant")
	}
	return p
}()

// pMinus2 = P - 2, the exponent used by Fermat's little theorem inversion.
var pMinus2 = new(big.Int).Sub(P, big.NewInt(2))
