package integration_test

const (
	TestUserId        = 1
	TestOtherUserId   = 2
	TestUserFirstName = "John"
	TestUserEmail     = "test@example.com"

	TestShowId = 1

	// Seats 1-4 are standard seats in row A, seat 5 is a VIP seat in row B and
	// seats 6 and 7 form a couple pair in row C.
	TestVipSeatId           = 5
	TestCoupleSeatId        = 6
	TestCouplePartnerSeatId = 7

	TestVoucherCode = "HALF"
	TestExpiredCode = "OLD"
)

const seedSQL = `
	TRUNCATE voucher_redemptions, reservations, vouchers, price_adjustments, shows, seats, screens, users
		RESTART IDENTITY CASCADE;

	INSERT INTO users (first_name, last_name, email) VALUES
		('John', 'Doe', 'test@example.com'),
		('Jane', 'Roe', 'jane@example.com');

	INSERT INTO screens (theater_id, name, screen_type) VALUES (1, 'Hall 1', 'IMAX');

	INSERT INTO seats (screen_id, row_label, seat_number, seat_type, pair_group_id) VALUES
		(1, 'A', 1, 'STANDARD', NULL),
		(1, 'A', 2, 'STANDARD', NULL),
		(1, 'A', 3, 'STANDARD', NULL),
		(1, 'A', 4, 'STANDARD', NULL),
		(1, 'B', 1, 'VIP', NULL),
		(1, 'C', 1, 'COUPLE', 1),
		(1, 'C', 2, 'COUPLE', 1);

	INSERT INTO shows (movie_id, screen_id, start_at, end_at, base_price) VALUES
		(1, 1, NOW() + INTERVAL '1 day', NOW() + INTERVAL '1 day 2 hours', 100);

	INSERT INTO price_adjustments (show_id, position, target, mode, key, amount) VALUES
		(1, 1, 'GLOBAL', 'PERCENT', '', 10),
		(1, 2, 'SEAT_TYPE', 'FIXED', 'VIP', 20),
		(1, 3, 'SCREEN_TYPE', 'PERCENT', 'IMAX', 10);

	INSERT INTO vouchers (code, type, value, max_discount, min_spend, valid_from, valid_to, active) VALUES
		('HALF', 'PERCENT', 50, 80, 100, NOW() - INTERVAL '1 day', NOW() + INTERVAL '1 day', true),
		('OLD', 'AMOUNT', 10, NULL, NULL, NOW() - INTERVAL '10 days', NOW() - INTERVAL '1 day', true);
`
