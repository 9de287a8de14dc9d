// Package collection хранит локальную копию коллекции сущностей и меняет ее
// только через переходы Load, Add, Replace и Remove по ключу сущности.
package collection

// Keyed сущность с ключом. Ключ уникален в пределах коллекции.
type Keyed interface {
	Key() string
}

// Collection упорядоченная коллекция. Порядок тот, что вернул сервер,
// новые элементы добавляются в конец.
type Collection[T Keyed] struct {
	Items []T `json:"items"`
}

// New коллекция из списка, полученного с сервера.
func New[T Keyed](items []T) Collection[T] {
	var c Collection[T]
	return c.Load(items)
}

// Load полностью заменяет содержимое.
func (c Collection[T]) Load(items []T) Collection[T] {
	out := make([]T, len(items))
	copy(out, items)
	return Collection[T]{Items: out}
}

// Add добавляет элемент. Если ключ уже есть, элемент заменяется на месте.
func (c Collection[T]) Add(item T) Collection[T] {
	if _, ok := c.index(item.Key()); ok {
		return c.Replace(item)
	}
	out := make([]T, 0, len(c.Items)+1)
	out = append(out, c.Items...)
	out = append(out, item)
	return Collection[T]{Items: out}
}

// Replace заменяет элемент с тем же ключом. Если такого нет, коллекция не меняется.
func (c Collection[T]) Replace(item T) Collection[T] {
	i, ok := c.index(item.Key())
	if !ok {
		return c
	}
	out := make([]T, len(c.Items))
	copy(out, c.Items)
	out[i] = item
	return Collection[T]{Items: out}
}

// Update применяет fn к элементу с ключом key.
func (c Collection[T]) Update(key string, fn func(T) T) Collection[T] {
	item, ok := c.Get(key)
	if !ok {
		return c
	}
	return c.Replace(fn(item))
}

// Remove удаляет элемент по ключу. Отсутствующий ключ не ошибка.
func (c Collection[T]) Remove(key string) Collection[T] {
	out := make([]T, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return Collection[T]{Items: out}
}

// Get элемент по ключу.
func (c Collection[T]) Get(key string) (T, bool) {
	if i, ok := c.index(key); ok {
		return c.Items[i], true
	}
	var zero T
	return zero, false
}

// Len количество элементов.
func (c Collection[T]) Len() int { return len(c.Items) }

func (c Collection[T]) index(key string) (int, bool) {
	for i, it := range c.Items {
		if it.Key() == key {
			return i, true
		}
	}
	return 0, false
}
