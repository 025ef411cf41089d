package fakeuserrepo

import (
	"strings"
	"sync"

	"github.com/jrsteele09/go-todo-client/users"
)

var _ users.AccountRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	accounts map[int]*users.Account
	emailIds map[string]int // lower-cased email to account id
	nextID   int
	lock     sync.RWMutex
}

func NewFakeUserRepo() users.AccountRepo {
	return &FakeUserRepo{
		accounts: make(map[int]*users.Account),
		emailIds: make(map[string]int),
	}
}

func (ur *FakeUserRepo) Insert(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	key := strings.ToLower(account.Email)
	if _, ok := ur.emailIds[key]; ok {
		return users.ErrEmailExists
	}
	ur.nextID++
	account.ID = ur.nextID
	stored := *account
	ur.accounts[account.ID] = &stored
	ur.emailIds[key] = account.ID
	return nil
}

func (ur *FakeUserRepo) Update(account *users.Account) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.accounts[account.ID]
	if !ok {
		return users.ErrNotFound
	}
	oldKey, newKey := strings.ToLower(existing.Email), strings.ToLower(account.Email)
	if oldKey != newKey {
		if _, taken := ur.emailIds[newKey]; taken {
			return users.ErrEmailExists
		}
		delete(ur.emailIds, oldKey)
		ur.emailIds[newKey] = account.ID
	}
	stored := *account
	ur.accounts[account.ID] = &stored
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	account := *ur.accounts[id]
	return &account, nil
}

func (ur *FakeUserRepo) GetByID(id int) (*users.Account, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.accounts[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	account := *stored
	return &account, nil
}
