package utils

import (
    "strings"
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
    h, err := HashPassword("correct horse", bcrypt.MinCost)
    if err != nil {
        t.Fatal(err)
    }
    if !VerifyPassword(h, "correct horse") || VerifyPassword(h, "wrong") {
        t.Fatal("verify mismatch")
    }

    // Out-of-range costs fall back to the default instead of failing.
    h, err = HashPassword("pw", 0)
    if err != nil {
        t.Fatal(err)
    }
    if cost, _ := bcrypt.Cost([]byte(h)); cost != bcrypt.DefaultCost {
        t.Fatalf("cost = %d", cost)
    }

    if _, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost); err == nil {
        t.Fatal("expected error for password over 72 bytes")
    }
}
