// Package inheritance distributes an estate among surviving relatives under
// the Hanafi rules of Islamic inheritance.
//
// Fixed (Fara'id) shares are assigned first from an ordered rule table. The
// residue then goes to the closest residuary (Asabah) tier: descendants,
// father, grandfather, full siblings, paternal siblings and finally the
// extended agnates. A closer tier blocks every farther one. Residue without a
// claimant is reported as unallocated. When fixed shares exceed the estate
// they are scaled down proportionally (awl). Awl is on by default;
// WithAwl(false) keeps the nominal shares and reports the negative residue
// instead, matching calculators that never apply it.
//
// Every category without a legal cap accepts at most MaxCount relatives.
//
// All arithmetic is exact; percentages are rounded only for presentation.
package inheritance
