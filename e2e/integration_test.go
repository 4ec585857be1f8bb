//go:build e2e

// Package e2e contains end-to-end integration tests using real DynamoDB tables.
// Run with: go test -tags=e2e -v ./e2e/...
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/quill/blog"
	"github.com/jacentio/quill/storage"
)

// Table names are unique per test run to avoid conflicts.
const tablePrefix = "quill-e2e-test"

var (
	testID     string
	tableNames []string
	namespace  string
	ddbClient  *dynamodb.Client
	testEngine *blog.Engine
)

func TestMain(m *testing.M) {
	testID = uuid.New().String()[:8]
	namespace = fmt.Sprintf("%s-%s-", tablePrefix, testID)
	for _, collection := range []string{"users", "posts", "comments"} {
		tableNames = append(tableNames, namespace+collection)
	}

	fmt.Printf("Test ID: %s\n", testID)
	for _, name := range tableNames {
		fmt.Printf("  - %s\n", name)
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	ddbClient = dynamodb.NewFromConfig(cfg)

	if err := createTables(ctx); err != nil {
		fmt.Printf("Failed to create tables: %v\n", err)
		os.Exit(1)
	}

	store := storage.NewDynamo(ddbClient, storage.Config{TablePrefix: namespace})
	testEngine = blog.NewEngine(store, nil)

	code := m.Run()

	if err := deleteTables(ctx); err != nil {
		fmt.Printf("Failed to delete tables: %v\n", err)
	}

	os.Exit(code)
}

func createTables(ctx context.Context) error {
	fmt.Println("Creating test tables...")

	for _, tableName := range tableNames {
		_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(tableName),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			return fmt.Errorf("create table %s: %w", tableName, err)
		}
	}

	for _, tableName := range tableNames {
		waiter := dynamodb.NewTableExistsWaiter(ddbClient)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(tableName),
		}, 2*time.Minute); err != nil {
			return fmt.Errorf("wait for table %s: %w", tableName, err)
		}
	}

	fmt.Println("All tables created and active")
	return nil
}

func deleteTables(ctx context.Context) error {
	fmt.Println("Deleting test tables...")

	for _, tableName := range tableNames {
		_, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{
			TableName: aws.String(tableName),
		})
		if err != nil {
			fmt.Printf("Warning: failed to delete table %s: %v\n", tableName, err)
		}
	}

	fmt.Println("Tables deleted")
	return nil
}

// --- Helpers ---

func createUser(t *testing.T, name, email string) *blog.User {
	t.Helper()
	user, fieldErrs, err := testEngine.CreateUser(context.Background(), map[string]string{
		"name":  name,
		"email": email,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("CreateUser rejected: %v", fieldErrs)
	}
	return user
}

func createPost(t *testing.T, userID, title, text string) *blog.Post {
	t.Helper()
	post, fieldErrs, err := testEngine.CreatePost(context.Background(), map[string]string{
		"userId": userID,
		"title":  title,
		"text":   text,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("CreatePost rejected: %v", fieldErrs)
	}
	return post
}

func createComment(t *testing.T, postID, userID, text string) *blog.Comment {
	t.Helper()
	comment, fieldErrs, err := testEngine.CreateComment(context.Background(), map[string]string{
		"postId": postID,
		"userId": userID,
		"text":   text,
	})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("CreateComment rejected: %v", fieldErrs)
	}
	return comment
}

// --- Tests ---

func TestCreate_User(t *testing.T) {
	user := createUser(t, "E2E User", "e2e@example.com")

	if user.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if user.JoinedAt == "" {
		t.Error("expected joinedAt to be set")
	}
	if user.UpdatedAt == "" {
		t.Error("expected updatedAt to be set")
	}

	detail, err := testEngine.UserDetail(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("UserDetail failed: %v", err)
	}
	if detail.Name != "E2E User" {
		t.Errorf("expected name %q, got %q", "E2E User", detail.Name)
	}
	if len(detail.PostIDs) != 0 {
		t.Errorf("expected no posts, got %d", len(detail.PostIDs))
	}
}

func TestUpdate_MergesStoredValues(t *testing.T) {
	ctx := context.Background()
	user := createUser(t, "Merge User", "merge@example.com")

	updated, fieldErrs, err := testEngine.UpdateUser(ctx, user.ID, map[string]string{
		"name": "Merge User Renamed",
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("UpdateUser rejected: %v", fieldErrs)
	}

	if updated.Name != "Merge User Renamed" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Email != "merge@example.com" {
		t.Errorf("expected stored email to survive, got %q", updated.Email)
	}
}

func TestDelete_BlockedByDependents(t *testing.T) {
	ctx := context.Background()

	user := createUser(t, "Guarded User", "guarded@example.com")
	post := createPost(t, user.ID, "Guarded Post", "Body text.")
	comment := createComment(t, post.ID, user.ID, "A comment.")

	// User delete is refused while the post and comment exist.
	_, deps, err := testEngine.DeleteUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if deps == nil {
		t.Fatal("expected delete to be blocked")
	}
	if len(deps.PostIDs) != 1 || deps.PostIDs[0] != post.ID {
		t.Errorf("expected blocking post %s, got %v", post.ID, deps.PostIDs)
	}
	if len(deps.CommentIDs) != 1 || deps.CommentIDs[0] != comment.ID {
		t.Errorf("expected blocking comment %s, got %v", comment.ID, deps.CommentIDs)
	}

	// Post delete is refused while the comment exists.
	_, deps, err = testEngine.DeletePost(ctx, post.ID)
	if err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if deps == nil {
		t.Fatal("expected post delete to be blocked")
	}

	// Comment deletes always succeed; then the chain unwinds.
	if _, err := testEngine.DeleteComment(ctx, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if _, deps, err = testEngine.DeletePost(ctx, post.ID); err != nil || deps != nil {
		t.Fatalf("expected post delete to succeed, deps=%v err=%v", deps, err)
	}
	if _, deps, err = testEngine.DeleteUser(ctx, user.ID); err != nil || deps != nil {
		t.Fatalf("expected user delete to succeed, deps=%v err=%v", deps, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := testEngine.UserDetail(context.Background(), "0123456789abcdef01234567")

	var nf *blog.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestAdmin_CountAndWipe(t *testing.T) {
	ctx := context.Background()

	user := createUser(t, "Admin User", "admin@example.com")
	createPost(t, user.ID, "Admin Post", "Body text.")

	counts, err := testEngine.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll failed: %v", err)
	}
	if counts.Users < 1 || counts.Posts < 1 {
		t.Errorf("expected at least one user and post, got %+v", counts)
	}

	if _, err := testEngine.WipeAll(ctx); err != nil {
		t.Fatalf("WipeAll failed: %v", err)
	}

	counts, err = testEngine.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll after wipe failed: %v", err)
	}
	if counts.Users != 0 || counts.Posts != 0 || counts.Comments != 0 {
		t.Errorf("expected empty collections after wipe, got %+v", counts)
	}
}
