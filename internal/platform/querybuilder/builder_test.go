package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("leagues").
		Where(Eq("owner_user_id", "user-1"), IsNull("deleted_at")).
		OrderBy("public_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM leagues WHERE owner_user_id = $1 AND deleted_at IS NULL ORDER BY public_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "user-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_GtAndIn(t *testing.T) {
	query, args, err := Select("*").
		From("matchups").
		Where(
			Eq("league_public_id", "lg1"),
			Gt("week", 3),
			In("slot", []any{0, 1}),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM matchups WHERE league_public_id = $1 AND week > $2 AND slot IN ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[1] != 3 || args[3] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("league_members").
		Columns("public_id", "user_id").
		Values("m1", "user-1").
		Suffix("RETURNING public_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO league_members (public_id, user_id) VALUES ($1, $2) RETURNING public_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != "user-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel_UsesDBTags(t *testing.T) {
	type row struct {
		PublicID string `db:"public_id"`
		Week     int    `db:"week"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("matchups", row{PublicID: "m1", Week: 2, Ignored: "x"}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matchups (public_id, week) VALUES ($1, $2) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "m1" || args[1] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("league_members").
		Set("is_eliminated", true).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE league_members SET is_eliminated = $1, updated_at = NOW() WHERE public_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != true || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_ExprWithArgs(t *testing.T) {
	query, args, err := Update("league_members").
		SetExpr("total_points", "ROUND((total_points + ?)::numeric, 2)", 12.5).
		Where(Eq("public_id", "m1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE league_members SET total_points = ROUND((total_points + $1)::numeric, 2) WHERE public_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 12.5 || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
