package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcflow/pgqb/query"
)

func TestSelect_Basic(t *testing.T) {
	sql, args, err := query.Table("users").Select("id", "name").Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM "users"`, sql)
	assert.Empty(t, args)
}

func TestSelect_AliasExpressionPassesThroughUnquoted(t *testing.T) {
	sql, _, err := query.Table("users").Select("name AS full_name", `"quoted_already"`).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT name AS full_name, "quoted_already" FROM "users"`, sql)
}

func TestSelect_DefaultProjectionIsStar(t *testing.T) {
	sql, _, err := query.Table("users").Where(query.M{{Key: "id", Val: 1}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1`, sql)
}

func TestWhere_ScalarAndOp(t *testing.T) {
	sql, args, err := query.Table("users").
		Where(query.M{{Key: "id", Val: 1}, {Key: "age", Val: query.Gt(18)}}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1 AND "age" > $2`, sql)
	assert.Equal(t, []any{1, 18}, args)
}

func TestWhere_NilIsNull(t *testing.T) {
	sql, args, err := query.Table("users").Where(query.M{{Key: "deleted_at", Val: nil}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "deleted_at" IS NULL`, sql)
	assert.Empty(t, args)
}

func TestWhere_MultipleOpsOnOneColumn(t *testing.T) {
	sql, args, err := query.Table("events").
		Where(query.M{{Key: "at", Val: []query.Op{query.Gte(10), query.Lte(20)}}}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "events" WHERE "at" >= $1 AND "at" <= $2`, sql)
	assert.Equal(t, []any{10, 20}, args)
}

func TestOrWhere_FlattensWithoutParens(t *testing.T) {
	sql, _, err := query.Table("users").
		Where(query.M{{Key: "a", Val: 1}}).
		Where(query.M{{Key: "b", Val: 2}}).
		OrWhere(query.M{{Key: "c", Val: 3}}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "a" = $1 AND "b" = $2 OR "c" = $3`, sql)
}

func TestWhere_InEmptyIsFalse(t *testing.T) {
	sql, args, err := query.Table("users").Where(query.M{{Key: "id", Val: query.In()}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE FALSE`, sql)
	assert.Empty(t, args)
}

func TestWhere_NotInEmptyIsTrue(t *testing.T) {
	sql, _, err := query.Table("users").Where(query.M{{Key: "id", Val: query.NotIn()}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE TRUE`, sql)
}

func TestWhere_InWithValues(t *testing.T) {
	sql, args, err := query.Table("users").Where(query.M{{Key: "id", Val: query.In(1, 2, 3)}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN ($1, $2, $3)`, sql)
	assert.Equal(t, []any{1, 2, 3}, args)
}

func TestWhere_Between(t *testing.T) {
	sql, args, err := query.Table("events").Where(query.M{{Key: "at", Val: query.Between(1, 10)}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "events" WHERE "at" BETWEEN $1 AND $2`, sql)
	assert.Equal(t, []any{1, 10}, args)
}

func TestWhere_Subquery(t *testing.T) {
	inner := query.Table("orders").Select("user_id").Where(query.M{{Key: "status", Val: "open"}})
	sql, args, err := query.Table("users").
		Where(query.M{{Key: "id", Val: query.InSubquery(inner)}, {Key: "active", Val: true}}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN (SELECT "user_id" FROM "orders" WHERE "status" = $1) AND "active" = $2`, sql)
	assert.Equal(t, []any{"open", true}, args)
}

func TestJoin_OrderLimitOffset(t *testing.T) {
	sql, args, err := query.Table("orders").
		Select("orders.id", "users.name").
		Join("users", "orders.user_id", "users.id").
		OrderBy("orders.created_at", true).
		Limit(10).
		Offset(5).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "orders"."id", "users"."name" FROM "orders" INNER JOIN "users" ON "orders"."user_id" = "users"."id" ORDER BY "orders"."created_at" DESC LIMIT $1 OFFSET $2`, sql)
	assert.Equal(t, []any{10, 5}, args)
}

func TestFullJoin(t *testing.T) {
	sql, _, err := query.Table("orders").
		Select("orders.id", "users.name").
		FullJoin("users", "orders.user_id", "users.id").
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "orders"."id", "users"."name" FROM "orders" FULL JOIN "users" ON "orders"."user_id" = "users"."id"`, sql)
}

func TestGroupByHaving(t *testing.T) {
	sql, args, err := query.Table("orders").
		Select("user_id").
		GroupBy("user_id").
		Having(query.M{{Key: "user_id", Val: query.Not(nil)}}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "user_id" FROM "orders" GROUP BY "user_id" HAVING "user_id" IS NOT NULL`, sql)
	assert.Empty(t, args)
}

func TestCount(t *testing.T) {
	sql, _, err := query.Table("orders").Where(query.M{{Key: "status", Val: "open"}}).Count().Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "orders" WHERE "status" = $1`, sql)
}

func TestCount_DiscardsGroupByHavingOrderLimitOffset(t *testing.T) {
	sql, args, err := query.Table("orders").
		Select("user_id").
		GroupBy("user_id").
		Having(query.M{{Key: "user_id", Val: query.Not(nil)}}).
		OrderBy("user_id", true).
		Limit(10).
		Offset(5).
		Count().
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "orders"`, sql)
	assert.Empty(t, args)
}

func TestInsert_SingleRow(t *testing.T) {
	sql, args, err := query.Table("users").Insert(query.M{{Key: "name", Val: "ada"}, {Key: "age", Val: 30}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "age") VALUES ($1, $2) RETURNING *`, sql)
	assert.Equal(t, []any{"ada", 30}, args)
}

func TestInsert_ReturningNoneSuppressesClause(t *testing.T) {
	sql, _, err := query.Table("users").
		Insert(query.M{{Key: "name", Val: "ada"}}).
		ReturningNone().
		Render()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name") VALUES ($1)`, sql)
}

func TestInsert_BatchRowsMustShareColumns(t *testing.T) {
	b := query.Table("users").Insert(
		query.M{{Key: "name", Val: "ada"}},
		query.M{{Key: "age", Val: 30}},
	)
	_, _, err := b.Render()
	require.Error(t, err)
	assert.ErrorIs(t, err, query.ErrRowColumnMismatch)
}

func TestInsert_RowWithDuplicateKeyIsRejected(t *testing.T) {
	b := query.Table("users").Insert(
		query.M{{Key: "name", Val: "ada"}, {Key: "age", Val: 30}},
		query.M{{Key: "name", Val: "bob"}, {Key: "name", Val: "robert"}},
	)
	_, _, err := b.Render()
	require.Error(t, err, "a row repeating one column and omitting another must not silently pass as complete")
	assert.ErrorIs(t, err, query.ErrRowColumnMismatch)
}

func TestInsert_OnConflictDoUpdate(t *testing.T) {
	sql, args, err := query.Table("users").
		Insert(query.M{{Key: "email", Val: "a@b.com"}, {Key: "name", Val: "ada"}}).
		OnConflict("email").
		DoUpdate(query.M{{Key: "name", Val: "ada2"}}).
		ReturningAll().
		Render()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("email", "name") VALUES ($1, $2) ON CONFLICT ("email") DO UPDATE SET "name" = $3 RETURNING *`, sql)
	assert.Equal(t, []any{"a@b.com", "ada", "ada2"}, args)
}

func TestUpdate_WithWhereReturning(t *testing.T) {
	sql, args, err := query.Table("users").
		Update(query.M{{Key: "name", Val: "ada2"}}).
		Where(query.M{{Key: "id", Val: 1}}).
		Returning("id", "name").
		Render()
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = $1 WHERE "id" = $2 RETURNING "id", "name"`, sql)
	assert.Equal(t, []any{"ada2", 1}, args)
}

func TestDelete_WithWhere(t *testing.T) {
	sql, args, err := query.Table("users").Delete().Where(query.M{{Key: "id", Val: 1}}).Render()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1 RETURNING *`, sql)
	assert.Equal(t, []any{1}, args)
}

func TestDelete_ReturningNoneSuppressesClause(t *testing.T) {
	sql, _, err := query.Table("users").Delete().Where(query.M{{Key: "id", Val: 1}}).ReturningNone().Render()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, sql)
}

func TestJoin_RejectedOnMutation(t *testing.T) {
	b := query.Table("users").Delete().Join("orders", "users.id", "orders.user_id")
	_, _, err := b.Render()
	require.Error(t, err)
	assert.ErrorIs(t, err, query.ErrJoinOnMutation)
}

func TestBuilder_ImmutableBranching(t *testing.T) {
	base := query.Table("users").Where(query.M{{Key: "active", Val: true}})

	sqlA, argsA, err := base.Where(query.M{{Key: "id", Val: 1}}).Render()
	require.NoError(t, err)
	sqlB, argsB, err := base.Where(query.M{{Key: "id", Val: 2}}).Render()
	require.NoError(t, err)
	baseSQL, baseArgs, err := base.Render()
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "users" WHERE "active" = $1 AND "id" = $2`, sqlA)
	assert.Equal(t, `SELECT * FROM "users" WHERE "active" = $1 AND "id" = $2`, sqlB)
	assert.Equal(t, []any{true, 1}, argsA)
	assert.Equal(t, []any{true, 2}, argsB)
	assert.Equal(t, `SELECT * FROM "users" WHERE "active" = $1`, baseSQL, "base must be unaffected by branches built from it")
	assert.Equal(t, []any{true}, baseArgs)
}

func TestLike_ILike_Not(t *testing.T) {
	sql, args, err := query.Table("users").
		Where(query.M{
			{Key: "name", Val: query.Like("a%")},
			{Key: "email", Val: query.ILike("%EXAMPLE%")},
			{Key: "status", Val: query.Not("banned")},
		}).
		Render()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "name" LIKE $1 AND "email" ILIKE $2 AND "status" != $3`, sql)
	assert.Equal(t, []any{"a%", "%EXAMPLE%", "banned"}, args)
}
