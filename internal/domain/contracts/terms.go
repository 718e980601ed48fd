package contracts

import "leihbar/internal/domain/offers"

// TermsForType returns the boilerplate terms matching the offer type. The
// text is frozen into the contract snapshot at generation time.
func TermsForType(t offers.OfferType) string {
	switch t {
	case offers.TypeService:
		return termsService
	default:
		return termsItem
	}
}

const termsItem = `1. The lessor hands over the rented item in working condition at the start of the rental period.
2. The lessee returns the item in the condition received, normal wear and tear excepted, on the final rental day.
3. A refundable deposit of 20% of the total rental price is due before handover and is returned upon undamaged return of the item.
4. The lessee is liable for loss of or damage to the item beyond normal wear and tear, up to its replacement value.
5. Either party may cancel the agreement before handover; statutory withdrawal rights remain unaffected.
6. The rental price covers the agreed rental days inclusively; late returns are charged at the agreed daily rate.`

const termsService = `1. The provider performs the agreed service on the booked days with reasonable skill and care.
2. The customer provides access and cooperation necessary for the service to be performed.
3. A refundable deposit of 20% of the total price is due at contract signature and is offset against the final amount.
4. Rescheduling requires consent of both parties; statutory withdrawal rights remain unaffected.
5. Liability for indirect or consequential damages is excluded to the extent permitted by law.
6. The price covers the booked days inclusively; additional effort is billed at the agreed daily rate.`
