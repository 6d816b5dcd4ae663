/*
	Package core holds what every part of the tuition manager shares: configuration, calendar types,
	validation and the error kinds the outer layers map to responses.

	The domain itself lives in the sub-packages:
		student    - student records and their payment history
		attendance - one mark per student per day
		reschedule - classes moved from one date to another
		schedule   - resolves who has class on a weekday or a date
		fee        - monthly fee status, totals and report
		session    - the loaded state, flushed after every mutation
*/
package core
